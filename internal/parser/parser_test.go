package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func symbolsByName(result *ParseResult) map[string]Symbol {
	out := make(map[string]Symbol, len(result.Symbols))
	for _, s := range result.Symbols {
		out[s.Name] = s
	}
	return out
}

func TestGoParser(t *testing.T) {
	src := []byte(`package server

import (
	"fmt"
	"net/http"
)

// Server wraps an HTTP listener
type Server struct {
	addr string
}

// Handler is the request contract
type Handler interface {
	Handle() error
}

// Start runs the listener
func (s *Server) Start() error {
	fmt.Println("starting")
	return http.ListenAndServe(s.addr, nil)
}

func helper() {
	fmt.Println("help")
}
`)

	p := NewGoParser()
	result, err := p.Parse(context.Background(), src, "server.go")
	require.NoError(t, err)
	require.Empty(t, result.Errors)

	syms := symbolsByName(result)
	require.Contains(t, syms, "Server")
	require.Contains(t, syms, "Handler")
	require.Contains(t, syms, "Start")
	require.Contains(t, syms, "helper")

	assert.Equal(t, SymbolKindType, syms["Server"].Kind)
	assert.Equal(t, SymbolKindInterface, syms["Handler"].Kind)
	assert.Equal(t, SymbolKindMethod, syms["Start"].Kind)
	assert.Equal(t, "Server", syms["Start"].Receiver)
	assert.Equal(t, SymbolKindFunction, syms["helper"].Kind)
	assert.Equal(t, "Server wraps an HTTP listener", syms["Server"].DocComment)

	var importPaths []string
	for _, imp := range result.Imports {
		importPaths = append(importPaths, imp.Path)
	}
	assert.ElementsMatch(t, []string{"fmt", "net/http"}, importPaths)

	var callees []string
	for _, c := range result.Calls {
		callees = append(callees, c.Callee)
	}
	assert.Contains(t, callees, "Println")
	assert.Contains(t, callees, "ListenAndServe")
}

func TestPythonParser(t *testing.T) {
	src := []byte(`import os
from collections import OrderedDict


class Engine:
    def run(self):
        self.prepare()

    def prepare(self):
        pass


def main():
    engine = Engine()
    engine.run()
`)

	p := NewPythonParser()
	result, err := p.Parse(context.Background(), src, "engine.py")
	require.NoError(t, err)

	syms := symbolsByName(result)
	require.Contains(t, syms, "Engine")
	require.Contains(t, syms, "run")
	require.Contains(t, syms, "main")

	assert.Equal(t, SymbolKindClass, syms["Engine"].Kind)
	assert.Equal(t, SymbolKindMethod, syms["run"].Kind)
	assert.Equal(t, "Engine", syms["run"].Receiver)
	assert.Equal(t, SymbolKindFunction, syms["main"].Kind)

	var importPaths []string
	for _, imp := range result.Imports {
		importPaths = append(importPaths, imp.Path)
	}
	assert.ElementsMatch(t, []string{"os", "collections"}, importPaths)

	var callers []string
	for _, c := range result.Calls {
		if c.Callee == "run" {
			callers = append(callers, c.Caller)
		}
	}
	assert.Contains(t, callers, "main")
}

func TestJavaScriptParser(t *testing.T) {
	src := []byte(`import { render } from "./render";

class App {
  mount() {
    render(this);
  }
}

function boot() {
  const app = new App();
  app.mount();
}
`)

	p := NewJavaScriptParser()
	result, err := p.Parse(context.Background(), src, "app.js")
	require.NoError(t, err)

	syms := symbolsByName(result)
	require.Contains(t, syms, "App")
	require.Contains(t, syms, "mount")
	require.Contains(t, syms, "boot")
	assert.Equal(t, "App", syms["mount"].Receiver)

	require.Len(t, result.Imports, 1)
	assert.Equal(t, "./render", result.Imports[0].Path)
}

func TestTypeScriptParser(t *testing.T) {
	src := []byte(`import { api } from "./api";

export interface Options {
  verbose: boolean;
}

export type Result = string | null;

export function query(opts: Options): Result {
  return api.get(opts);
}
`)

	p := NewTypeScriptParser()
	result, err := p.Parse(context.Background(), src, "query.ts")
	require.NoError(t, err)

	syms := symbolsByName(result)
	require.Contains(t, syms, "Options")
	require.Contains(t, syms, "Result")
	require.Contains(t, syms, "query")

	assert.Equal(t, SymbolKindInterface, syms["Options"].Kind)
	assert.Equal(t, SymbolKindType, syms["Result"].Kind)
	assert.Equal(t, SymbolKindFunction, syms["query"].Kind)
}

func TestTSXParser(t *testing.T) {
	src := []byte(`import React from "react";

interface Props {
  name: string;
}

// Greeting renders the welcome banner
function Greeting({ name }: Props) {
  return <h1>Hello, {name}</h1>;
}

export default function App() {
  return <Greeting name="world" />;
}
`)

	r := NewRegistry()
	p := r.ForFile("web/App.tsx")
	require.NotNil(t, p)

	result, err := p.Parse(context.Background(), src, "web/App.tsx")
	require.NoError(t, err)
	assert.Empty(t, result.Errors)

	syms := symbolsByName(result)
	require.Contains(t, syms, "Props")
	require.Contains(t, syms, "Greeting")
	require.Contains(t, syms, "App")

	assert.Equal(t, SymbolKindInterface, syms["Props"].Kind)
	assert.Equal(t, SymbolKindFunction, syms["Greeting"].Kind)
	assert.Equal(t, "Greeting renders the welcome banner", syms["Greeting"].DocComment)
	// JSX must not break the symbol ranges
	assert.Less(t, syms["Greeting"].EndLine, syms["App"].StartLine)
}

func TestParse_SyntaxErrorsArePartial(t *testing.T) {
	src := []byte("package broken\n\nfunc ok() {}\n\nfunc broken( {\n")

	p := NewGoParser()
	result, err := p.Parse(context.Background(), src, "broken.go")
	require.NoError(t, err)

	assert.NotEmpty(t, result.Errors)
	syms := symbolsByName(result)
	assert.Contains(t, syms, "ok")
}

func TestRegistry_ForFile(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, "go", r.ForFile("a/b/main.go").Language())
	assert.Equal(t, "python", r.ForFile("scripts/run.py").Language())
	assert.Equal(t, "typescript", r.ForFile("web/app.tsx").Language())
	assert.Nil(t, r.ForFile("README.md"))
	assert.Nil(t, r.ForFile("image.png"))
}

func TestParse_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewGoParser()
	_, err := p.Parse(ctx, []byte("package x"), "x.go")
	assert.Error(t, err)
}
