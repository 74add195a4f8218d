package assetserver

import (
	"bytes"
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// Script is a lua chunk compiled at load time, ready to run on any VM.
// Compiling on the worker keeps syntax errors on the loading path instead of
// surfacing mid-game.
type Script struct {
	Name  string
	Proto *lua.FunctionProto
}

// CompileScript parses and compiles lua source without executing it.
func CompileScript(name string, src []byte) (*Script, error) {
	chunk, err := parse.Parse(bytes.NewReader(src), name)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return &Script{Name: name, Proto: proto}, nil
}

// Do runs the compiled chunk on vm.
func (s *Script) Do(vm *lua.LState) error {
	vm.Push(vm.NewFunctionFromProto(s.Proto))
	return vm.PCall(0, lua.MultRet, nil)
}

// DecodeScript is the DecodeFunc behind the .lua extension.
func DecodeScript(name string, raw []byte) (any, error) {
	return CompileScript(name, raw)
}
