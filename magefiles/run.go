//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// sceneArgs 传递 XMASTREE_CONFIG / XMASTREE_MUSIC 环境变量给查看器
func sceneArgs() []string {
	var args []string
	if path := os.Getenv("XMASTREE_CONFIG"); path != "" {
		args = append(args, "--config", path)
	}
	if path := os.Getenv("XMASTREE_MUSIC"); path != "" {
		args = append(args, "--music", path)
	}
	return args
}

// Runs the desktop viewer with verbose logging.
func (Run) Desktop() error {
	fmt.Println("Run desktop viewer...")
	args := append([]string{"run", ".", "--verbose"}, sceneArgs()...)
	_, err := executeCmd("go", withArgs(args...), withStream())
	return err
}

// Runs the terminal viewer, logging to xmastree-tty.log.
func (Run) Tty() error {
	fmt.Println("Run terminal viewer...")
	args := append([]string{"run", "./cmd/xmastree-tty", "--log", "xmastree-tty.log"}, sceneArgs()...)
	_, err := executeCmd("go", withArgs(args...), withStream())
	return err
}
