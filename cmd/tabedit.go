package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vedsharma/apitester/internal/builder"
	"github.com/vedsharma/apitester/internal/format"
	"github.com/vedsharma/apitester/internal/kvlist"
	"github.com/vedsharma/apitester/internal/model"
	"github.com/vedsharma/apitester/internal/workspace"
)

// pairTarget selects which rows of a tab's request an edit applies to
type pairTarget int

const (
	headerRows pairTarget = iota
	paramRows
)

func (t pairTarget) String() string {
	if t == paramRows {
		return "Params"
	}
	return "Headers"
}

// pairEdit changes one row list in place
type pairEdit func(l *kvlist.List) error

var tabEditRef string

// tabPairCommands builds the "tab header" and "tab param" command trees
func tabPairCommands() []*cobra.Command {
	var cmds []*cobra.Command
	for _, target := range []pairTarget{headerRows, paramRows} {
		noun := "header"
		if target == paramRows {
			noun = "param"
		}

		editCmd := &cobra.Command{
			Use:   noun,
			Short: fmt.Sprintf("Edit the %s rows of a tab's request", noun),
			Long: fmt.Sprintf(`Edit the %s rows of a tab's request.

Rows are numbered from 1 as printed after every edit. Without --tab the
active tab is edited.`, noun),
		}
		editCmd.PersistentFlags().StringVar(&tabEditRef, "tab", "", "Tab to edit (id or name)")

		addCmd := &cobra.Command{
			Use:   "add <key> <value>",
			Short: fmt.Sprintf("Append a %s row", noun),
			Args:  cobra.ExactArgs(2),
			Run:   runTabPairs(target, func(args []string) (pairEdit, error) { return addPair(args[0], args[1]), nil }),
		}

		setCmd := &cobra.Command{
			Use:   "set <index> <key|value> <text>",
			Short: fmt.Sprintf("Change the key or value of a %s row", noun),
			Args:  cobra.ExactArgs(3),
			Run:   runTabPairs(target, func(args []string) (pairEdit, error) { return setPair(args[0], args[1], args[2]) }),
		}

		rmCmd := &cobra.Command{
			Use:     "rm <index>",
			Aliases: []string{"remove"},
			Short:   fmt.Sprintf("Remove a %s row", noun),
			Args:    cobra.ExactArgs(1),
			Run:     runTabPairs(target, func(args []string) (pairEdit, error) { return removePair(args[0]) }),
		}

		editCmd.AddCommand(addCmd, setCmd, rmCmd)
		cmds = append(cmds, editCmd)
	}
	return cmds
}

func runTabPairs(target pairTarget, parse func(args []string) (pairEdit, error)) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		action := fmt.Sprintf("Failed to edit %s", target)
		edit, err := parse(args)
		if err != nil {
			fail(action, err)
		}

		a, ws := loadWorkspace(action)
		defer a.close()

		desc, err := editTabPairs(ws, tabEditRef, target, edit)
		if err != nil {
			fail(action, describeIndexError(err))
		}
		saveWorkspace(ws, action)

		form := builder.NewForm()
		form.Load(desc)
		rows := form.Headers
		if target == paramRows {
			rows = form.Params
		}
		format.PrintPairs(target.String(), rows.Pairs())
	}
}

// editTabPairs loads the tab's request into a form, applies edit to the
// selected rows and stores the rebuilt request back on the tab
func editTabPairs(ws *workspace.Workspace, ref string, target pairTarget, edit pairEdit) (model.RequestDescriptor, error) {
	tab, err := ws.Get(ref)
	if err != nil {
		return model.RequestDescriptor{}, err
	}
	if target == paramRows && tab.Request.URL == "" {
		return model.RequestDescriptor{}, fmt.Errorf("tab '%s' has no URL yet", tab.Name)
	}

	form := builder.NewForm()
	form.Load(tab.Request)

	rows := form.Headers
	if target == paramRows {
		rows = form.Params
	}
	if err := edit(rows); err != nil {
		return model.RequestDescriptor{}, err
	}

	desc, err := form.Descriptor()
	if err != nil {
		return model.RequestDescriptor{}, err
	}
	if err := ws.UpdateRequest(tab.ID, desc); err != nil {
		return model.RequestDescriptor{}, err
	}
	return desc, nil
}

func addPair(key, value string) pairEdit {
	return func(l *kvlist.List) error {
		l.Add()
		last := l.Len() - 1
		if err := l.Update(last, kvlist.FieldKey, key); err != nil {
			return err
		}
		return l.Update(last, kvlist.FieldValue, value)
	}
}

func setPair(index, field, value string) (pairEdit, error) {
	i, err := parseRowIndex(index)
	if err != nil {
		return nil, err
	}
	f, err := kvlist.ParseField(field)
	if err != nil {
		return nil, err
	}
	return func(l *kvlist.List) error {
		return l.Update(i, f, value)
	}, nil
}

func removePair(index string) (pairEdit, error) {
	i, err := parseRowIndex(index)
	if err != nil {
		return nil, err
	}
	return func(l *kvlist.List) error {
		return l.Remove(i)
	}, nil
}

// parseRowIndex turns a 1-based row number into a list index
func parseRowIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	return n - 1, nil
}

// describeIndexError reports out of range rows with the 1-based numbers users type
func describeIndexError(err error) error {
	var ie *kvlist.IndexError
	if errors.As(err, &ie) {
		return fmt.Errorf("no row %d (%d rows)", ie.Index+1, ie.Len)
	}
	return err
}
