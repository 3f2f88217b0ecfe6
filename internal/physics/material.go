package physics

// Material describes the surface of a body. Friction or restitution below
// zero means unset; contact resolution then falls back to the world's
// contact materials.
type Material struct {
	Name        string
	Friction    float64
	Restitution float64
}

func NewMaterial(name string) *Material {
	return &Material{Name: name, Friction: -1, Restitution: -1}
}

// ContactMaterial binds a pair of materials to the friction and restitution
// used when they touch. The pair is unordered.
type ContactMaterial struct {
	A, B        *Material
	Friction    float64
	Restitution float64
}

func NewContactMaterial(a, b *Material, friction, restitution float64) *ContactMaterial {
	return &ContactMaterial{A: a, B: b, Friction: friction, Restitution: restitution}
}

type materialPair struct {
	a, b *Material
}

func makeMaterialPair(a, b *Material) materialPair {
	if a != nil && b != nil && b.Name < a.Name {
		a, b = b, a
	}
	return materialPair{a, b}
}

// surface resolves the effective friction and restitution for two materials:
// a registered contact material first, then the product of both materials'
// own values when both are set, then the default.
func (w *World) surface(a, b *Material) (friction, restitution float64) {
	if cm, ok := w.contactMaterials[makeMaterialPair(a, b)]; ok {
		return cm.Friction, cm.Restitution
	}
	if cm, ok := w.contactMaterials[makeMaterialPair(b, a)]; ok {
		return cm.Friction, cm.Restitution
	}
	friction, restitution = w.defaultContact.Friction, w.defaultContact.Restitution
	if a != nil && b != nil {
		if a.Friction >= 0 && b.Friction >= 0 {
			friction = a.Friction * b.Friction
		}
		if a.Restitution >= 0 && b.Restitution >= 0 {
			restitution = a.Restitution * b.Restitution
		}
	}
	return friction, restitution
}
