package vm

import (
	"fmt"

	"mech/internal/value"
)

// PrintValue mirrors the teacher's PrintValue helper, printing a
// secondary-backend result the same way the primary interpreter does.
func PrintValue(v value.Value) {
	if v == nil {
		return
	}
	fmt.Println(v.String())
}
