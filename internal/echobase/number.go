package echobase

import "fmt"

// number is an int64 until a float takes part in the arithmetic.
type number struct {
	i       int64
	f       float64
	isFloat bool
}

func asNumber(value any) (number, error) {
	switch v := value.(type) {
	case int64:
		return number{i: v}, nil
	case int:
		return number{i: int64(v)}, nil
	case float64:
		return number{f: v, isFloat: true}, nil
	}
	return number{}, fmt.Errorf("expected a number, got %#v", value)
}

func (n number) float() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

func (n number) add(o number) number {
	if n.isFloat || o.isFloat {
		return number{f: n.float() + o.float(), isFloat: true}
	}
	return number{i: n.i + o.i}
}

func (n number) mul(o number) number {
	if n.isFloat || o.isFloat {
		return number{f: n.float() * o.float(), isFloat: true}
	}
	return number{i: n.i * o.i}
}

func (n number) value() any {
	if n.isFloat {
		return n.f
	}
	return n.i
}
