package telemetry

import (
	"fmt"

	"gorm.io/gorm"
)

// gormOperations are the callback processors instrumented by the tracing and
// metrics plugins, paired with the SQL verb each one issues.
var gormOperations = []struct {
	name string
	verb string
}{
	{"create", "INSERT"},
	{"query", "SELECT"},
	{"update", "UPDATE"},
	{"delete", "DELETE"},
	{"row", ""},
	{"raw", ""},
}

// registerAround registers before and after hooks named prefix:before_<op> and
// prefix:after_<op> around every gorm operation.
func registerAround(db *gorm.DB, prefix string, before func(*gorm.DB), after func(verb string) func(*gorm.DB)) error {
	for _, op := range gormOperations {
		beforeName := fmt.Sprintf("%s:before_%s", prefix, op.name)
		afterName := fmt.Sprintf("%s:after_%s", prefix, op.name)
		anchor := "gorm:" + op.name

		var err error
		switch op.name {
		case "create":
			p := db.Callback().Create()
			if err = p.Before(anchor).Register(beforeName, before); err == nil {
				err = p.After(anchor).Register(afterName, after(op.verb))
			}
		case "query":
			p := db.Callback().Query()
			if err = p.Before(anchor).Register(beforeName, before); err == nil {
				err = p.After(anchor).Register(afterName, after(op.verb))
			}
		case "update":
			p := db.Callback().Update()
			if err = p.Before(anchor).Register(beforeName, before); err == nil {
				err = p.After(anchor).Register(afterName, after(op.verb))
			}
		case "delete":
			p := db.Callback().Delete()
			if err = p.Before(anchor).Register(beforeName, before); err == nil {
				err = p.After(anchor).Register(afterName, after(op.verb))
			}
		case "row":
			p := db.Callback().Row()
			if err = p.Before(anchor).Register(beforeName, before); err == nil {
				err = p.After(anchor).Register(afterName, after(op.verb))
			}
		case "raw":
			p := db.Callback().Raw()
			if err = p.Before(anchor).Register(beforeName, before); err == nil {
				err = p.After(anchor).Register(afterName, after(op.verb))
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}
