package crocoddyl

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/junhyekh/crocoddyl/actor"
	"github.com/junhyekh/crocoddyl/constraint"
	"gonum.org/v1/gonum/mat"
)

const DEFAULT_WORKERS = 1

// Contact is a named flat contact and its CoP support region
type Contact struct {
	Name      string
	Transform actor.Transform
	Support   *constraint.CoPSupport
}

// NewContact creates a contact placed at transform, with a box (length, width) support
func NewContact(name string, transform actor.Transform, box mgl64.Vec2, opts ...constraint.Option) *Contact {
	return &Contact{
		Name:      name,
		Transform: transform,
		Support:   constraint.NewCoPSupportFromOrientation(transform.SupportOrientation(), box, opts...),
	}
}

// NewContactFromNormal creates a contact at position whose surface faces normal
func NewContactFromNormal(name string, position, normal mgl64.Vec3, box mgl64.Vec2, opts ...constraint.Option) *Contact {
	support := constraint.NewCoPSupportFromNormal(normal, box, opts...)
	// the support maps the normal onto up, the contact frame does the opposite
	q := constraint.RotationBetween(constraint.Up(), support.Normal())

	return &Contact{
		Name:      name,
		Transform: actor.NewTransformFromRotation(position, q),
		Support:   support,
	}
}

// SetTransform moves the contact; the support orientation follows
func (c *Contact) SetTransform(transform actor.Transform) {
	c.Transform = transform
	c.Support.SetOrientation(transform.SupportOrientation())
}

// Stance is the set of contacts currently supporting the robot
type Stance struct {
	Contacts []*Contact
	Workers  int
}

// AddContact adds a contact to the stance
func (s *Stance) AddContact(contact *Contact) {
	s.Contacts = append(s.Contacts, contact)
}

// RemoveContact removes a contact from the stance
func (s *Stance) RemoveContact(contact *Contact) {
	k := -1
	for i, c := range s.Contacts {
		if c == contact {
			k = i
			break
		}
	}

	if k != -1 {
		s.Contacts = append(s.Contacts[:k], s.Contacts[k+1:]...)
	}
}

// Contact returns the first contact with the given name, or nil
func (s *Stance) Contact(name string) *Contact {
	for _, c := range s.Contacts {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Dimensions returns the size of the stacked constraint system
func (s *Stance) Dimensions() (rows, cols int) {
	for _, c := range s.Contacts {
		r, k := c.Support.A().Dims()
		rows += r
		cols += k
	}
	return rows, cols
}

// Constraints stacks the supports of all contacts in a block diagonal system
// lb <= A·x <= ub, where x concatenates the [force; moment] of each contact in
// order. It returns nil matrices for an empty stance.
func (s *Stance) Constraints() (a *mat.Dense, ub, lb *mat.VecDense) {
	rows, cols := s.Dimensions()
	if rows == 0 || cols == 0 {
		return nil, nil, nil
	}

	a = mat.NewDense(rows, cols, nil)
	ub = mat.NewVecDense(rows, nil)
	lb = mat.NewVecDense(rows, nil)

	type block struct {
		contact  *Contact
		row, col int
	}
	blocks := make([]block, len(s.Contacts))
	row, col := 0, 0
	for i, c := range s.Contacts {
		blocks[i] = block{contact: c, row: row, col: col}
		r, k := c.Support.A().Dims()
		row += r
		col += k
	}

	// blocks never overlap, so workers write disjoint elements
	task(max(DEFAULT_WORKERS, s.Workers), blocks, func(_ int, b block) {
		support := b.contact.Support
		r, k := support.A().Dims()

		a.Slice(b.row, b.row+r, b.col, b.col+k).(*mat.Dense).Copy(support.A())
		ub.SliceVec(b.row, b.row+r).(*mat.VecDense).CopyVec(support.Ub())
		lb.SliceVec(b.row, b.row+r).(*mat.VecDense).CopyVec(support.Lb())
	})

	return a, ub, lb
}

// Contains reports whether every contact admits its wrench. forces and
// moments are indexed like Contacts.
func (s *Stance) Contains(forces, moments []mgl64.Vec3) bool {
	if len(forces) != len(s.Contacts) || len(moments) != len(s.Contacts) {
		return false
	}

	admitted := make([]bool, len(s.Contacts))
	task(max(DEFAULT_WORKERS, s.Workers), s.Contacts, func(i int, c *Contact) {
		admitted[i] = c.Support.Contains(forces[i], moments[i])
	})

	for _, ok := range admitted {
		if !ok {
			return false
		}
	}
	return true
}

func (s *Stance) String() string {
	var sb strings.Builder
	for _, c := range s.Contacts {
		fmt.Fprintf(&sb, "%s @ %v\n%v", c.Name, c.Transform.Position, c.Support)
	}
	return sb.String()
}
