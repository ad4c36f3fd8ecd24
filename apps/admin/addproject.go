package main

import (
	"context"
	"fmt"

	"github.com/trezcool/placement/core/project"
)

func (cli *commandLine) addProject(title, description, status string, capacity int) error {
	p, err := cli.projects.Create(context.Background(), project.NewProject{
		Title:       title,
		Description: description,
		Status:      status,
		Capacity:    capacity,
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "project %d created: %q (capacity %d)\n", p.ID, p.Title, p.Capacity)
	return nil
}
