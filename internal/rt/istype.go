package rt

// IsInstance reports whether v is an instance of target.
//
// Classes and native types are checked along the prototype chain only.
// Traits additionally need a walk over the declared bases, pruned by
// classIndex: a class constructed before the trait cannot implement it.
func IsInstance(v Value, target Type) bool {
	if v == nil || target == nil {
		return false
	}
	inst, isInst := v.(*Instance)

	switch t := target.(type) {
	case *NativeType:
		if !isInst {
			return t.Is != nil && t.Is(v)
		}
		return onPrototypeChain(inst.class, t)
	case *Class:
		if !isInst {
			return false
		}
		if onPrototypeChain(inst.class, t) {
			return true
		}
		if t.meta.Kind != KindTrait {
			return false
		}
		return inheritsTrait(inst.class, t)
	}
	return false
}

func onPrototypeChain(c *Class, target Type) bool {
	var cur Type = c
	for cur != nil {
		if cur == target {
			return true
		}
		cc, ok := cur.(*Class)
		if !ok {
			return false
		}
		cur = cc.meta.Primary
	}
	return false
}

// inheritsTrait terminates because every declared base has a strictly smaller
// classIndex than the class naming it.
func inheritsTrait(c *Class, trait *Class) bool {
	if c.meta.ClassIndex < trait.meta.ClassIndex {
		return false
	}
	for _, b := range c.meta.Bases {
		if b == Type(trait) {
			return true
		}
	}
	for _, b := range c.meta.Bases {
		if bc, ok := b.(*Class); ok && inheritsTrait(bc, trait) {
			return true
		}
	}
	return false
}
