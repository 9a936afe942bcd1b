package schema

// Base is embedded by typed tool input/output schemas.
type Base struct{}

func (b Base) Raw() any {
	return nil
}
