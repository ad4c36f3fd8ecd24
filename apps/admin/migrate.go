package main

import (
	"context"

	"github.com/pressly/goose/v3"

	"github.com/trezcool/placement/storage/database"
	"github.com/trezcool/placement/storage/database/migrations"
)

var gooseRunFunc = goose.RunContext // mockable

func (cli *commandLine) migrate(args []string) error {
	dialect, dir, err := database.GooseDialect(cli.db.DriverName())
	if err != nil {
		return err
	}
	goose.SetBaseFS(migrations.FS)
	if err = goose.SetDialect(string(dialect)); err != nil {
		return err
	}

	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(context.Background(), args[0], cli.db.DB, dir, arguments...)
}
