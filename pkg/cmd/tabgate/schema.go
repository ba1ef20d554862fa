package tabgate

import (
	"fmt"
	"io"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"go.minekube.com/tabgate/pkg/edition/java/proto/schema"
	"go.minekube.com/tabgate/pkg/edition/java/proto/version"
	"go.minekube.com/tabgate/pkg/util/suggest"
)

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the wire shape of every field per protocol version",
		Description: `Validates the built-in schema table against all supported versions
and prints how each field is encoded for each version.

	tabgate schema
	tabgate schema --field pet_owner`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "field",
				Aliases: []string{"f"},
				Usage:   "Only print the given fields",
			},
		},
		Action: func(c *cli.Context) error {
			if err := schema.Default.Validate(version.SupportedVersions); err != nil {
				return cli.Exit(err, 1)
			}
			fields, err := selectFields(schema.Default, c.StringSlice("field"))
			if err != nil {
				return cli.Exit(err, 1)
			}
			renderSchema(c.App.Writer, schema.Default, fields)
			return nil
		},
	}
}

func selectFields(t *schema.Table, names []string) ([]schema.FieldID, error) {
	all := t.Fields()
	if len(names) == 0 {
		return all, nil
	}
	known := make([]string, len(all))
	for i, f := range all {
		known[i] = string(f)
	}
	fields := make([]schema.FieldID, 0, len(names))
	for _, n := range names {
		if len(t.Entries(schema.FieldID(n))) == 0 {
			return nil, fmt.Errorf("unknown field %q%s", n, suggest.DidYouMean(n, known))
		}
		fields = append(fields, schema.FieldID(n))
	}
	return fields, nil
}

func renderSchema(w io.Writer, t *schema.Table, fields []schema.FieldID) {
	tw := tablewriter.NewWriter(w)
	header := []string{"Version"}
	for _, f := range fields {
		name := string(f)
		if t.Required(f) {
			name += "*"
		}
		header = append(header, name)
	}
	tw.SetHeader(header)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetBorder(true)

	for _, v := range version.SupportedVersions {
		row := []string{fmt.Sprintf("%s (%d)", v, v.Protocol)}
		for _, f := range fields {
			e, ok := t.Lookup(f, v.Protocol)
			if !ok {
				row = append(row, color.Gray.Sprint("-"))
				continue
			}
			row = append(row, describe(e))
		}
		tw.Append(row)
	}
	tw.Render()
}

// describe formats the wire shape of e, e.g. "String(16)" or "OptUUID@17".
func describe(e schema.Entry) string {
	s := e.Type.String()
	switch {
	case e.Field == schema.PetOwner:
		s = fmt.Sprintf("%s@%d", s, e.Index)
	case e.Max > 0:
		s = fmt.Sprintf("%s(%d)", s, e.Max)
	}
	return s
}
