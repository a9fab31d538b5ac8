//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs the unit tests.
func (Test) Unit() error {
	fmt.Println("Run tests...")
	_, err := executeCmd("go", withArgs("test", "./engine/..."), withStream())
	return err
}

// Runs go vet, then the unit tests with the race detector.
func (Test) Race() error {
	mg.Deps(Build.Vet)
	_, err := executeCmd("go", withArgs("test", "-race", "./engine/..."), withStream())
	return err
}

// Runs the batching benchmarks.
func (Test) Bench() error {
	_, err := executeCmd("go", withArgs("test", "-run", "^$", "-bench", ".", "-benchmem", "./engine/systems/..."), withDir("."), withStream())
	return err
}
