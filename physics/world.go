// Package physics integrates rigid bodies against the ground plane and static rail boxes
package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrNilBody = errors.New("nil body")

// Box is a static oriented box standing on the ground plane
// Along and Across are unit horizontal axes
type Box struct {
	Center        mgl64.Vec3
	Along         mgl64.Vec3
	Across        mgl64.Vec3
	HalfLength    float64
	HalfThickness float64
	Material      *Material
}

// World integrates dynamic bodies against a ground plane at y=0 and static boxes
// Materials are injected at construction; bodies and boxes must use the table's instances
type World struct {
	Gravity mgl64.Vec3

	materials *MaterialTable
	ground    *Material
	bodies    []*RigidBody
	boxes     []Box

	contacts uint64
}

// NewWorld creates a world whose ground uses the given material from table
func NewWorld(table *MaterialTable, ground *Material, gravity float64) (*World, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: nil table", ErrUnknownMaterial)
	}
	if !table.Owns(ground) {
		return nil, fmt.Errorf("ground: %w", ErrUnknownMaterial)
	}
	return &World{
		Gravity:   mgl64.Vec3{0, -gravity, 0},
		materials: table,
		ground:    ground,
	}, nil
}

// Materials returns the injected table
func (w *World) Materials() *MaterialTable {
	return w.materials
}

// AddBody registers a dynamic body
func (w *World) AddBody(b *RigidBody) error {
	if b == nil {
		return ErrNilBody
	}
	if !w.materials.Owns(b.Material) {
		return fmt.Errorf("body: %w", ErrUnknownMaterial)
	}
	w.bodies = append(w.bodies, b)
	return nil
}

// RemoveBody drops a body; unknown bodies are ignored
func (w *World) RemoveBody(b *RigidBody) {
	for i, existing := range w.bodies {
		if existing == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			return
		}
	}
}

// AddBox registers a static collider
func (w *World) AddBox(box Box) error {
	if !w.materials.Owns(box.Material) {
		return fmt.Errorf("box: %w", ErrUnknownMaterial)
	}
	w.boxes = append(w.boxes, box)
	return nil
}

// Bodies returns the live body count
func (w *World) Bodies() int {
	return len(w.bodies)
}

// Contacts returns the number of box contacts resolved since creation
func (w *World) Contacts() uint64 {
	return w.contacts
}

// Step advances every body by exactly dt and resolves contacts
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	for _, b := range w.bodies {
		b.integrate(w.Gravity, dt)
		w.resolveGround(b)
		for i := range w.boxes {
			if w.resolveBox(b, &w.boxes[i]) {
				w.contacts++
			}
		}
	}
}

func (w *World) resolveGround(b *RigidBody) {
	if b.Position[1]-b.HalfHeight >= 0 {
		return
	}
	cm := w.materials.Contact(w.ground, b.Material)
	b.Position[1] = b.HalfHeight
	if b.Velocity[1] < 0 {
		b.Velocity[1] = -b.Velocity[1] * cm.Restitution
	}
	if cm.Friction > 0 {
		keep := math.Max(0, 1-cm.Friction)
		b.Velocity[0] *= keep
		b.Velocity[2] *= keep
	}
}

// resolveBox pushes a body's XZ circle out of a box and removes inbound normal velocity
func (w *World) resolveBox(b *RigidBody, box *Box) bool {
	dx := b.Position[0] - box.Center[0]
	dz := b.Position[2] - box.Center[2]

	along := dx*box.Along[0] + dz*box.Along[2]
	across := dx*box.Across[0] + dz*box.Across[2]

	// Closest point on the box footprint, in box coordinates
	ca := clamp(along, -box.HalfLength, box.HalfLength)
	cc := clamp(across, -box.HalfThickness, box.HalfThickness)
	ea, ec := along-ca, across-cc
	dist := math.Hypot(ea, ec)
	if dist >= b.Radius {
		return false
	}

	var ua, uc, pen float64
	if dist < 1e-9 {
		// Center inside the footprint: exit through the long face
		uc = 1
		if across < 0 {
			uc = -1
		}
		pen = b.Radius + box.HalfThickness - math.Abs(across)
	} else {
		ua, uc = ea/dist, ec/dist
		pen = b.Radius - dist
	}

	nx := ua*box.Along[0] + uc*box.Across[0]
	nz := ua*box.Along[2] + uc*box.Across[2]
	b.Position[0] += nx * pen
	b.Position[2] += nz * pen

	cm := w.materials.Contact(box.Material, b.Material)
	vn := b.Velocity[0]*nx + b.Velocity[2]*nz
	if vn < 0 {
		k := (1 + cm.Restitution) * vn
		b.Velocity[0] -= k * nx
		b.Velocity[2] -= k * nz
	}
	return true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
