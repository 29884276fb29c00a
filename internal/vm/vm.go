// Package vm implements Mech's secondary bytecode backend: a small
// stack machine over internal/bytecode.Chunk, grounded on the
// teacher's stack-machine VM shape but trimmed to the scalar
// arithmetic/comparison/global-variable opcode subset internal/compiler
// emits. This backend exists for comparison against the primary
// tree-walking interpreter in internal/interp and does not implement
// matrices, tables, indexing, or reactive statements.
package vm

import (
	"fmt"

	"mech/internal/bytecode"
	"mech/internal/dispatch"
	"mech/internal/value"
)

// VM executes one Chunk to completion and returns the final stack
// value, mirroring the interpreter's "last expression is the result"
// convention (internal/interp.Interpreter.Interpret).
type VM struct {
	chunk   *bytecode.Chunk
	stack   []value.Value
	globals map[string]value.Value
	profile *dispatch.FeatureProfile
}

func New(chunk *bytecode.Chunk) *VM {
	return &VM{
		chunk:   chunk,
		globals: make(map[string]value.Value),
		profile: dispatch.NewFeatureProfile(),
	}
}

func (vm *VM) push(v value.Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() value.Value {
	n := len(vm.stack)
	v := vm.stack[n-1]
	vm.stack = vm.stack[:n-1]
	return v
}

func (vm *VM) binary(op string) error {
	b := vm.pop()
	a := vm.pop()
	result, err := dispatch.BinaryOp(op, a, b, vm.profile)
	if err != nil {
		return err
	}
	vm.push(result)
	return nil
}

// Run executes the chunk and returns whatever value was left on the
// stack by OpReturn, or nil if the program produced no value.
func (vm *VM) Run() (value.Value, error) {
	ip := 0
	code := vm.chunk.Code
	for ip < len(code) {
		op := bytecode.OpCode(code[ip])
		ip++
		switch op {
		case bytecode.OpConstant:
			idx := code[ip]
			ip++
			vm.push(vm.chunk.Constants[idx].(value.Value))
		case bytecode.OpAdd:
			if err := vm.binary("+"); err != nil {
				return nil, err
			}
		case bytecode.OpSub:
			if err := vm.binary("-"); err != nil {
				return nil, err
			}
		case bytecode.OpMul:
			if err := vm.binary("*"); err != nil {
				return nil, err
			}
		case bytecode.OpDiv:
			if err := vm.binary("/"); err != nil {
				return nil, err
			}
		case bytecode.OpEqual:
			if err := vm.binary("=="); err != nil {
				return nil, err
			}
		case bytecode.OpNotEqual:
			if err := vm.binary("!="); err != nil {
				return nil, err
			}
		case bytecode.OpGreater:
			if err := vm.binary(">"); err != nil {
				return nil, err
			}
		case bytecode.OpLess:
			if err := vm.binary("<"); err != nil {
				return nil, err
			}
		case bytecode.OpGreaterEqual:
			if err := vm.binary(">="); err != nil {
				return nil, err
			}
		case bytecode.OpLessEqual:
			if err := vm.binary("<="); err != nil {
				return nil, err
			}
		case bytecode.OpNegate:
			v := vm.pop()
			result, err := dispatch.UnaryOp("-", v, vm.profile)
			if err != nil {
				return nil, err
			}
			vm.push(result)
		case bytecode.OpPop:
			vm.pop()
		case bytecode.OpDefineGlobal:
			name := string(vm.chunk.Constants[code[ip]].(value.String))
			ip++
			vm.globals[name] = vm.pop()
		case bytecode.OpSetGlobal:
			name := string(vm.chunk.Constants[code[ip]].(value.String))
			ip++
			if _, ok := vm.globals[name]; !ok {
				return nil, fmt.Errorf("undefined variable %q", name)
			}
			vm.globals[name] = vm.pop()
		case bytecode.OpGetGlobal:
			name := string(vm.chunk.Constants[code[ip]].(value.String))
			ip++
			v, ok := vm.globals[name]
			if !ok {
				return nil, fmt.Errorf("undefined variable %q", name)
			}
			vm.push(v)
		case bytecode.OpReturn:
			if len(vm.stack) == 0 {
				return nil, nil
			}
			return vm.pop(), nil
		default:
			return nil, fmt.Errorf("secondary backend: unknown opcode %d", op)
		}
	}
	return nil, nil
}
