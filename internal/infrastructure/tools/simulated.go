// Package tools holds the router strategy's pluggable tool slots. The
// implementations here are simulated placeholders until real SQL and API
// integrations replace them.
package tools

import "context"

type SimulatedSQLTool struct{}

func NewSimulatedSQLTool() *SimulatedSQLTool { return &SimulatedSQLTool{} }

func (t *SimulatedSQLTool) Run(_ context.Context, _ string) (string, error) {
	return "SQL response example: (Simulated DB result)", nil
}

type SimulatedAPITool struct{}

func NewSimulatedAPITool() *SimulatedAPITool { return &SimulatedAPITool{} }

func (t *SimulatedAPITool) Run(_ context.Context, _ string) (string, error) {
	return "API response example: (Simulated external API)", nil
}
