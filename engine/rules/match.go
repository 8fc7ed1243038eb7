package rules

import (
	"fmt"
	"strings"

	"github.com/nathoo/bossfight/types"
)

// UnknownActionError indicates a name that matches no action on the sheet.
type UnknownActionError struct {
	Name    string
	Choices []string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("%q is not one of your actions (%s)", e.Name, strings.Join(e.Choices, "; "))
}

// AmbiguityError indicates a name that matches more than one action.
type AmbiguityError struct {
	Name    string
	Matches []string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("%q matches more than one action: %s", e.Name, strings.Join(e.Matches, "; "))
}

// FindAction returns the single action on the sheet whose name equals name,
// ignoring case and surrounding whitespace.
func FindAction(s types.Sheet, name string) (types.ActionDef, error) {
	name = strings.TrimSpace(name)
	var found []types.ActionDef
	for _, a := range s.Actions {
		if strings.EqualFold(a.Name, name) {
			found = append(found, a)
		}
	}

	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return types.ActionDef{}, &UnknownActionError{Name: name, Choices: ActionNames(s)}
	default:
		var names []string
		for _, a := range found {
			names = append(names, a.Name)
		}
		return types.ActionDef{}, &AmbiguityError{Name: name, Matches: names}
	}
}

// ActionNames lists the sheet's action names in sheet order.
func ActionNames(s types.Sheet) []string {
	names := make([]string, len(s.Actions))
	for i, a := range s.Actions {
		names[i] = a.Name
	}
	return names
}
