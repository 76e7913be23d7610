package rt

import (
	"fmt"

	"declower/internal/trace"
)

// ClassObject returns the class object of c, forcing it on first access.
// A class without a builder yields nil ("no object"), not an error.
//
// For classes the first access also wires the base initializer: the primary
// base's class object is forced first. Traits build their object directly and
// force nothing else.
func (r *Runtime) ClassObject(c *Class) (Value, error) {
	if c.meta.Kind == KindTrait {
		return r.buildClassObject(c)
	}
	if c.wire != wireUnwired {
		return c.currentObject()
	}
	return r.wireBaseInitializer(c)
}

// baseInitializer returns the primary base class whose constructor must run
// before c's own body, wiring c on the first call. Native and absent bases
// yield nil. A class whose object failed to build cannot be constructed.
func (r *Runtime) baseInitializer(c *Class) (*Class, error) {
	if c.wire == wireUnwired {
		if _, err := r.wireBaseInitializer(c); err != nil {
			return nil, err
		}
	} else if c.objState == objectFailed {
		return nil, c.objErr
	}
	base, _ := c.meta.Primary.(*Class)
	return base, nil
}

func (r *Runtime) wireBaseInitializer(c *Class) (Value, error) {
	c.wire = wireWiring
	if base, ok := c.meta.Primary.(*Class); ok {
		if _, err := r.ClassObject(base); err != nil {
			c.wire = wireDone
			c.objState = objectFailed
			c.objErr = err
			return nil, err
		}
	}
	c.wire = wireDone
	return r.buildClassObject(c)
}

// currentObject reads the slot without starting a build. While the builder
// runs the object is not available yet and reads as nil.
func (c *Class) currentObject() (Value, error) {
	switch c.objState {
	case objectReady:
		return c.objValue, nil
	case objectFailed:
		return nil, c.objErr
	default:
		return nil, nil
	}
}

func (r *Runtime) buildClassObject(c *Class) (Value, error) {
	if c.objState != objectUnforced {
		return c.currentObject()
	}
	if c.builder == nil {
		c.objState = objectReady
		return nil, nil
	}

	c.objState = objectBuilding
	trace.Point(r.tracer, trace.ScopeClass, "object:"+c.name, "", nil)
	v, err := c.builder(r)
	if err != nil {
		c.objState = objectFailed
		c.objErr = fmt.Errorf("class object of %s: %w", c.name, err)
		return nil, c.objErr
	}
	c.objState = objectReady
	c.objValue = v
	return v, nil
}
