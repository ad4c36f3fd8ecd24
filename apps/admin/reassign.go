package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/placement/core/assignment"
)

// reassign moves a student. When the move fails halfway the student is reported as unassigned.
func (cli *commandLine) reassign(studentID, projectID int64) error {
	a, err := cli.ledger.Reassign(context.Background(), studentID, projectID)
	if err != nil {
		var uErr *assignment.UnassignedError
		if errors.As(err, &uErr) {
			_, _ = fmt.Fprintf(cli.out, "warning: student %d was removed from project %d and is now unassigned\n",
				uErr.StudentID, uErr.FromProjectID)
		}
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "student %d assigned to project %d\n", a.StudentID, a.ProjectID)
	return nil
}
