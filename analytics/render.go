package analytics

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"vending-machine/model"
	"vending-machine/money"
)

// Render writes the report for the administrator console.
func (r Report) Render(w io.Writer) {
	fmt.Fprintf(w, "Current balance: %s\n", money.Format(r.Balance))
	fmt.Fprintf(w, "Most profitable product: %s\n", incomeLabel(r.MostProfitable))
	fmt.Fprintf(w, "Least profitable product: %s\n", incomeLabel(r.LeastProfitable))
	fmt.Fprintf(w, "Highest selling product: %s\n", soldLabel(r.HighestSelling))
	fmt.Fprintf(w, "Lowest selling product: %s\n", soldLabel(r.LowestSelling))
	fmt.Fprintln(w)

	for _, line := range r.StockLines() {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Product", "Price", "Stock", "Sold", "Income"})
	table.SetAutoFormatHeaders(false)
	for i, p := range r.Products {
		table.Append([]string{
			strconv.Itoa(i),
			p.Name,
			money.Format(p.Price),
			strconv.FormatInt(p.Quantity, 10),
			strconv.FormatInt(p.UnitsSold, 10),
			money.Format(p.Income),
		})
	}
	table.Render()
}

func incomeLabel(p *model.Product) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%s (%s)", p.Name, money.Format(p.Income))
}

func soldLabel(p *model.Product) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%s (%d sold)", p.Name, p.UnitsSold)
}
