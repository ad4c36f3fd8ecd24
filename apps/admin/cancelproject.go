package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) cancelProject(projectID int64) error {
	released, err := cli.ledger.CancelProject(context.Background(), projectID)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "project %d cancelled, %d student(s) released: %v\n", projectID, len(released), released)
	return nil
}
