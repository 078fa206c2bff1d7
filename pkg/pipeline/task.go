package pipeline

import (
	"context"
	"fmt"
)

// TaskFunc is the function signature for a task's execution logic.
type TaskFunc func(ctx context.Context, bc *BuildContext) error

// Task is a named unit of pipeline work. Requires lists tasks that must
// appear earlier in a pipeline's ordered task list; the runner validates
// the ordering but never reorders or deduplicates tasks.
type Task struct {
	Name     string
	Requires []string
	Run      TaskFunc
}

// Pipeline is a named, explicitly ordered task list. The same task may
// appear more than once and runs once per occurrence.
type Pipeline struct {
	Name  string
	Tasks []string
}

// The three named pipelines.
var (
	Build = Pipeline{
		Name:  "Build",
		Tasks: []string{"Init", "Clean", "Compile", "GenerateDocs"},
	}

	BuildAndTest = Pipeline{
		Name:  "BuildAndTest",
		Tasks: []string{"Init", "Clean", "Compile", "Analyze", "Test"},
	}

	BuildAndDeploy = Pipeline{
		Name:  "BuildAndDeploy",
		Tasks: []string{"Init", "Clean", "Compile", "Analyze", "Test", "Deploy", "Clean"},
	}
)

// Pipelines indexes the named pipelines by name.
var Pipelines = map[string]Pipeline{
	Build.Name:          Build,
	BuildAndTest.Name:   BuildAndTest,
	BuildAndDeploy.Name: BuildAndDeploy,
}

// Lookup returns the named pipeline.
func Lookup(name string) (Pipeline, error) {
	p, ok := Pipelines[name]
	if !ok {
		return Pipeline{}, fmt.Errorf("unknown pipeline: %q", name)
	}
	return p, nil
}

// Resolve checks that every occurrence of every task in the pipeline has
// all of its prerequisites at an earlier position in the ordered list.
func Resolve(p Pipeline, tasks map[string]Task) error {
	for i, name := range p.Tasks {
		task, ok := tasks[name]
		if !ok {
			return fmt.Errorf("pipeline %s references unknown task %q", p.Name, name)
		}
		for _, req := range task.Requires {
			if !appearsBefore(p.Tasks, req, i) {
				return fmt.Errorf("pipeline %s: task %s requires %s to run first", p.Name, name, req)
			}
		}
	}
	return nil
}

func appearsBefore(tasks []string, name string, idx int) bool {
	for _, t := range tasks[:idx] {
		if t == name {
			return true
		}
	}
	return false
}
