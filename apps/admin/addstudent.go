package main

import (
	"context"
	"fmt"

	"github.com/trezcool/placement/core/student"
)

func (cli *commandLine) addStudent(code, name, email string) error {
	s, err := cli.students.Create(context.Background(), student.NewStudent{Code: code, Name: name, Email: email})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "student %d registered: %s (%s)\n", s.ID, s.Name, s.Code)
	return nil
}
