package types

import "fmt"

func NewProgramNotFoundError(name string) error {
	return fmt.Errorf("program %v not found", name)
}
