package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/placement/core/assignment"
	"github.com/trezcool/placement/core/project"
	"github.com/trezcool/placement/core/student"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db       *sqlx.DB
	projects *project.Service
	students *student.Service
	ledger   *assignment.Ledger
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, down, status, ...) against the configured database")
	_, _ = fmt.Fprintln(cli.out, "  addproject -title TITLE -capacity N [-description TEXT] [-status STATUS] - create a project")
	_, _ = fmt.Fprintln(cli.out, "  addstudent -code CODE -name NAME [-email EMAIL] - register a student")
	_, _ = fmt.Fprintln(cli.out, "  reassign -student ID -project ID - move a student to another project")
	_, _ = fmt.Fprintln(cli.out, "  cancelproject -project ID - cancel a project and release all its seats")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addProjectCmd := cli.newFlagSet("addproject")
	addProjectTitle := addProjectCmd.String("title", "", "The project's unique title.")
	addProjectCapacity := addProjectCmd.Int("capacity", 0, "The maximum number of students.")
	addProjectDesc := addProjectCmd.String("description", "", "The project's description.")
	addProjectStatus := addProjectCmd.String("status", project.StatusActive, "Active | Inactive")

	addStudentCmd := cli.newFlagSet("addstudent")
	addStudentCode := addStudentCmd.String("code", "", "The student's registration number.")
	addStudentName := addStudentCmd.String("name", "", "The student's full name.")
	addStudentEmail := addStudentCmd.String("email", "", "The student's email, used for notifications.")

	reassignCmd := cli.newFlagSet("reassign")
	reassignStudent := reassignCmd.Int64("student", 0, "The student's ID.")
	reassignProject := reassignCmd.Int64("project", 0, "The target project's ID.")

	cancelProjectCmd := cli.newFlagSet("cancelproject")
	cancelProjectID := cancelProjectCmd.Int64("project", 0, "The project's ID.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "addproject":
		if err := addProjectCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addProjectTitle == "" || *addProjectCapacity == 0 {
			addProjectCmd.Usage()
			return errHelp
		}
		return cli.addProject(*addProjectTitle, *addProjectDesc, *addProjectStatus, *addProjectCapacity)
	case "addstudent":
		if err := addStudentCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addStudentCode == "" || *addStudentName == "" {
			addStudentCmd.Usage()
			return errHelp
		}
		return cli.addStudent(*addStudentCode, *addStudentName, *addStudentEmail)
	case "reassign":
		if err := reassignCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *reassignStudent == 0 || *reassignProject == 0 {
			reassignCmd.Usage()
			return errHelp
		}
		return cli.reassign(*reassignStudent, *reassignProject)
	case "cancelproject":
		if err := cancelProjectCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *cancelProjectID == 0 {
			cancelProjectCmd.Usage()
			return errHelp
		}
		return cli.cancelProject(*cancelProjectID)
	default:
		cli.printUsage()
		return errHelp
	}
}
