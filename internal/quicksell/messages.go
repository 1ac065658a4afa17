package quicksell

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pixil98/go-errors"
)

var templateFuncs = sprig.TxtFuncMap()

// Messages are the text/template sources for everything sent to players.
// Empty fields fall back to DefaultMessages.
type Messages struct {
	Sold           string `json:"sold"`
	SaleFailed     string `json:"sale_failed"`
	PriceAdded     string `json:"price_added"`
	EmptyHand      string `json:"empty_hand"`
	BadArgCount    string `json:"bad_arg_count"`
	BadPrice       string `json:"bad_price"`
	Reloaded       string `json:"reloaded"`
	NoPermission   string `json:"no_permission"`
	PlayersOnly    string `json:"players_only"`
	UnknownCommand string `json:"unknown_command"`
}

var DefaultMessages = Messages{
	Sold:           "§aYou sold {{ .Items }} item{{ if ne .Items 1 }}s{{ end }} for: §e{{ .Total }}",
	SaleFailed:     "§cThe sale could not be completed, your items are still in the window.",
	PriceAdded:     "§aItem added for sale at §e{{ .Price }}§a each!",
	EmptyHand:      "You are not holding anything.",
	BadArgCount:    "Wrong number of arguments. Usage: /{{ .Command }} <value>",
	BadPrice:       "Enter a valid price.",
	Reloaded:       "§aSell prices have been reloaded.",
	NoPermission:   "§cYou do not have permission to use /{{ .Command }}.",
	PlayersOnly:    "§c/{{ .Command }} can only be used by players.",
	UnknownCommand: "§cUnknown command: {{ .Command | lower }}",
}

// messageData is what every message template is executed against.
type messageData struct {
	Player  string
	Command string
	Items   int
	Total   string
	Price   string
	Key     string
}

// templates holds the parsed form of Messages.
type templates struct {
	sold           *template.Template
	saleFailed     *template.Template
	priceAdded     *template.Template
	emptyHand      *template.Template
	badArgCount    *template.Template
	badPrice       *template.Template
	reloaded       *template.Template
	noPermission   *template.Template
	playersOnly    *template.Template
	unknownCommand *template.Template
}

func (m Messages) withDefaults() Messages {
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&m.Sold, DefaultMessages.Sold)
	fill(&m.SaleFailed, DefaultMessages.SaleFailed)
	fill(&m.PriceAdded, DefaultMessages.PriceAdded)
	fill(&m.EmptyHand, DefaultMessages.EmptyHand)
	fill(&m.BadArgCount, DefaultMessages.BadArgCount)
	fill(&m.BadPrice, DefaultMessages.BadPrice)
	fill(&m.Reloaded, DefaultMessages.Reloaded)
	fill(&m.NoPermission, DefaultMessages.NoPermission)
	fill(&m.PlayersOnly, DefaultMessages.PlayersOnly)
	fill(&m.UnknownCommand, DefaultMessages.UnknownCommand)
	return m
}

// Validate parses every template so mistakes surface at startup.
func (m *Messages) Validate() error {
	_, err := m.compile()
	return err
}

func (m *Messages) compile() (*templates, error) {
	full := m.withDefaults()
	el := errors.NewErrorList()

	parse := func(name, src string) *template.Template {
		t, err := template.New(name).Funcs(templateFuncs).Parse(src)
		if err != nil {
			el.Add(fmt.Errorf("parsing %s message: %w", name, err))
		}
		return t
	}

	t := &templates{
		sold:           parse("sold", full.Sold),
		saleFailed:     parse("sale_failed", full.SaleFailed),
		priceAdded:     parse("price_added", full.PriceAdded),
		emptyHand:      parse("empty_hand", full.EmptyHand),
		badArgCount:    parse("bad_arg_count", full.BadArgCount),
		badPrice:       parse("bad_price", full.BadPrice),
		reloaded:       parse("reloaded", full.Reloaded),
		noPermission:   parse("no_permission", full.NoPermission),
		playersOnly:    parse("players_only", full.PlayersOnly),
		unknownCommand: parse("unknown_command", full.UnknownCommand),
	}

	if err := el.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

func expand(t *template.Template, data messageData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing %s message: %w", t.Name(), err)
	}
	return buf.String(), nil
}
