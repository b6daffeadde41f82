//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

const binDir = "bin"

type Build mg.Namespace

// Builds the desktop viewer into bin/xmastree.
func (Build) Desktop() error {
	_, err := executeCmd("go", withArgs("build", "-o", binDir+"/xmastree", "."), withStream())
	return err
}

// Builds the terminal viewer into bin/xmastree-tty.
func (Build) Tty() error {
	_, err := executeCmd("go", withArgs("build", "-o", binDir+"/xmastree-tty", "./cmd/xmastree-tty"), withStream())
	return err
}

// Builds both viewers.
func (Build) All() {
	mg.SerialDeps(Build.Desktop, Build.Tty)
}
