package menu

import (
	"github.com/shopspring/decimal"

	"github.com/pixil98/go-quicksell/internal/display"
	"github.com/pixil98/go-quicksell/internal/item"
)

// Labels holds the text drawn on the control row.
type Labels struct {
	Title      string   `json:"title"`
	SellButton string   `json:"sell_button"`
	InfoTitle  string   `json:"info_title"`
	InfoLore   []string `json:"info_lore"`
	TotalTitle string   `json:"total_title"`
	TotalLore  string   `json:"total_lore"`
}

// DefaultLabels are used for any label left empty in configuration.
var DefaultLabels = Labels{
	Title:      "Sell items",
	SellButton: "§a§lSell all",
	InfoTitle:  "§e§lHow to sell",
	InfoLore: []string{
		"§7Put the items you want to sell into this window",
		"§7Press 'Sell all' to sell them",
	},
	TotalTitle: "§6§lCurrent value",
	TotalLore:  "§7Value of the items:",
}

// Materials used for the control row.
const (
	MaterialSellButton = "EMERALD_BLOCK"
	MaterialInfo       = "BOOK"
	MaterialTotal      = "GOLD_NUGGET"
	MaterialFiller     = "STAINED_GLASS_PANE"
)

// Builder draws the control row of a sell view.
type Builder struct {
	labels Labels
}

// NewBuilder creates a Builder, filling unset labels from DefaultLabels.
func NewBuilder(l Labels) *Builder {
	if l.Title == "" {
		l.Title = DefaultLabels.Title
	}
	if l.SellButton == "" {
		l.SellButton = DefaultLabels.SellButton
	}
	if l.InfoTitle == "" {
		l.InfoTitle = DefaultLabels.InfoTitle
	}
	if len(l.InfoLore) == 0 {
		l.InfoLore = DefaultLabels.InfoLore
	}
	if l.TotalTitle == "" {
		l.TotalTitle = DefaultLabels.TotalTitle
	}
	if l.TotalLore == "" {
		l.TotalLore = DefaultLabels.TotalLore
	}
	return &Builder{labels: l}
}

// NewView creates an empty view titled from the builder's labels.
func (b *Builder) NewView() *View {
	return NewView(b.labels.Title)
}

// Render overwrites every control slot for the given total. Sellable slots are
// never touched, so calling it repeatedly is safe.
func (b *Builder) Render(v *View, total decimal.Decimal) {
	g := v.Grid()

	g.Set(InfoSlot, button(MaterialInfo, b.labels.InfoTitle, display.WrapLore(b.labels.InfoLore...)...))
	g.Set(TotalSlot, button(MaterialTotal, b.labels.TotalTitle, b.labels.TotalLore, "§e"+display.Money(total)))
	for i := FillerStart; i <= FillerEnd; i++ {
		g.Set(i, button(MaterialFiller, " "))
	}
	g.Set(SellSlot, button(MaterialSellButton, b.labels.SellButton))
}

func button(material, name string, lore ...string) *item.Stack {
	return &item.Stack{
		Type:        material,
		DisplayName: name,
		Lore:        lore,
		Amount:      1,
	}
}
