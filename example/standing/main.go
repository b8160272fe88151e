package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/junhyekh/crocoddyl"
	"github.com/junhyekh/crocoddyl/actor"
	"github.com/junhyekh/crocoddyl/config"
	"github.com/junhyekh/crocoddyl/constraint"
	"gonum.org/v1/gonum/mat"
)

// SetupStance creates a biped standing on flat ground, the right foot on a slight slope
func SetupStance() *crocoddyl.Stance {
	stance := &crocoddyl.Stance{Workers: 2}

	stance.AddContact(crocoddyl.NewContact("left_sole",
		actor.NewTransformFromRotation(mgl64.Vec3{0, 0.1, 0}, mgl64.QuatIdent()),
		mgl64.Vec2{0.2, 0.1}))
	stance.AddContact(crocoddyl.NewContactFromNormal("right_sole",
		mgl64.Vec3{0, -0.1, 0.02}, mgl64.Vec3{0, 0.1, 1}.Normalize(), mgl64.Vec2{0.2, 0.1}))

	return stance
}

func main() {
	path := flag.String("config", "", "stance description (.json)")
	flag.Parse()

	stance := SetupStance()
	if *path != "" {
		var err error
		stance, err = config.LoadStance(*path)
		if err != nil {
			log.Fatalf("failed to load stance: %v", err)
		}
	}

	// an invalid foot size is corrected, not rejected
	if corr := stance.Contacts[0].Support.SetBox(mgl64.Vec2{-0.2, 0.1}); corr.Has(constraint.LengthUnbounded) {
		fmt.Printf("⚠️  corrected %s: %v\n", stance.Contacts[0].Name, corr)
	}
	stance.Contacts[0].Support.SetBox(mgl64.Vec2{0.2, 0.1})

	fmt.Printf("🦶 Stance:\n%v\n", stance)

	a, ub, _ := stance.Constraints()
	fmt.Printf("A =\n%v\n\n", mat.Formatted(a, mat.Squeeze()))
	fmt.Printf("ub = %v\n", mat.Formatted(ub.T(), mat.Squeeze()))

	forces := make([]mgl64.Vec3, len(stance.Contacts))
	moments := make([]mgl64.Vec3, len(stance.Contacts))
	for i := range forces {
		forces[i] = mgl64.Vec3{0, 0, 300}
	}
	fmt.Printf("centered CoP admissible: %v\n", stance.Contains(forces, moments))

	moments[0] = mgl64.Vec3{20, 0, 0}
	fmt.Printf("shifted CoP admissible: %v\n", stance.Contains(forces, moments))
}
