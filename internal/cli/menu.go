// Package cli implements the interactive text menu on top of the
// inventory and report services.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/avalenz/inventario/internal/config"
	ierrors "github.com/avalenz/inventario/internal/errors"
	"github.com/avalenz/inventario/internal/model"
	"github.com/avalenz/inventario/internal/report"
	"github.com/avalenz/inventario/internal/service"
)

// Outcome tells the menu loop what to do after an action finished.
type Outcome int

const (
	// Retry returns control to the main menu for another round.
	Retry Outcome = iota
	// Done terminates the menu loop.
	Done
)

// Menu drives the interactive session. All user rendering happens here;
// the services only return values and errors from the shared taxonomy.
type Menu struct {
	inventory service.InventoryService
	reports   *report.Service
	reportCfg config.ReportConfig
	logger    *slog.Logger
	in        *bufio.Reader
	out       io.Writer
}

// NewMenu creates a menu reading user input from in and rendering to out.
func NewMenu(in io.Reader, out io.Writer, inventory service.InventoryService, reports *report.Service, reportCfg config.ReportConfig, logger *slog.Logger) *Menu {
	return &Menu{
		inventory: inventory,
		reports:   reports,
		reportCfg: reportCfg,
		logger:    logger.With("component", "cli"),
		in:        bufio.NewReader(in),
		out:       out,
	}
}

// Run loops over the main menu until the user exits or input ends.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.printMenu()
		choice, err := m.prompt("Select an option: ")
		if err != nil {
			// Input stream closed; treat like a normal exit.
			return nil
		}
		if m.dispatch(ctx, choice) == Done {
			return nil
		}
	}
}

func (m *Menu) printMenu() {
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, "=== INVENTORY SYSTEM ===")
	fmt.Fprintln(m.out, "1. Show inventory")
	fmt.Fprintln(m.out, "2. Search product")
	fmt.Fprintln(m.out, "3. Add product")
	fmt.Fprintln(m.out, "4. Edit product")
	fmt.Fprintln(m.out, "5. Delete product")
	fmt.Fprintln(m.out, "6. Sell product")
	fmt.Fprintln(m.out, "7. Report")
	fmt.Fprintln(m.out, "8. Exit")
}

func (m *Menu) dispatch(ctx context.Context, choice string) Outcome {
	switch choice {
	case "1":
		return m.showInventory(ctx)
	case "2":
		return m.searchProduct(ctx)
	case "3":
		return m.addProduct(ctx)
	case "4":
		return m.editProduct(ctx)
	case "5":
		return m.deleteProduct(ctx)
	case "6":
		return m.sellProduct(ctx)
	case "7":
		return m.showReport(ctx)
	case "8":
		fmt.Fprintln(m.out, "Bye.")
		return Done
	default:
		fmt.Fprintln(m.out, "Please choose a valid option.")
		return Retry
	}
}

func (m *Menu) showInventory(ctx context.Context) Outcome {
	products, err := m.inventory.FindAll(ctx)
	if err != nil {
		m.reportError(ctx, "list inventory", err)
		return Retry
	}
	if len(products) == 0 {
		fmt.Fprintln(m.out, "No products registered.")
		return Retry
	}
	m.renderDtos(products)
	return Retry
}

func (m *Menu) searchProduct(ctx context.Context) Outcome {
	term, err := m.prompt("Enter product code or name: ")
	if err != nil {
		return Done
	}
	found, err := m.inventory.Search(ctx, term)
	if err != nil {
		m.reportError(ctx, "search", err)
		return Retry
	}
	if len(found) == 0 {
		fmt.Fprintln(m.out, "No products found.")
		return Retry
	}
	m.renderDtos(found)
	return Retry
}

func (m *Menu) addProduct(ctx context.Context) Outcome {
	var dto service.ProductCreateDto
	var err error
	if dto.Code, err = m.prompt("Code: "); err != nil {
		return Done
	}
	if dto.Name, err = m.prompt("Name: "); err != nil {
		return Done
	}
	if dto.Price, err = m.prompt("Price: "); err != nil {
		return Done
	}
	if dto.Stock, err = m.prompt("Stock: "); err != nil {
		return Done
	}

	created, err := m.inventory.Add(ctx, dto)
	if err != nil {
		m.reportError(ctx, "add product", err)
		return Retry
	}
	fmt.Fprintf(m.out, "Product %s added and saved.\n", created.Code)
	return Retry
}

func (m *Menu) editProduct(ctx context.Context) Outcome {
	code, err := m.prompt("Enter code of the product to edit: ")
	if err != nil {
		return Done
	}
	current, err := m.inventory.FindByCode(ctx, code)
	if err != nil {
		m.reportError(ctx, "edit product", err)
		return Retry
	}

	fmt.Fprintln(m.out, "\nCurrent product:")
	m.renderDtos([]service.ProductDto{*current})

	fmt.Fprintln(m.out, "\nWhich field do you want to edit?")
	fmt.Fprintln(m.out, "1. Name")
	fmt.Fprintln(m.out, "2. Price")
	fmt.Fprintln(m.out, "3. Stock")
	fmt.Fprintln(m.out, "4. Cancel")
	choice, err := m.prompt("Select an option (1-4): ")
	if err != nil {
		return Done
	}

	var field service.EditField
	switch choice {
	case "1":
		field = service.FieldName
	case "2":
		field = service.FieldPrice
	case "3":
		field = service.FieldStock
	case "4":
		fmt.Fprintln(m.out, "Operation cancelled.")
		return Retry
	default:
		fmt.Fprintln(m.out, "Invalid option.")
		return Retry
	}

	value, err := m.prompt(fmt.Sprintf("New %s: ", field))
	if err != nil {
		return Done
	}
	updated, err := m.inventory.Edit(ctx, code, field, value)
	if err != nil {
		m.reportError(ctx, "edit product", err)
		return Retry
	}
	fmt.Fprintf(m.out, "Product %s updated and saved.\n", updated.Code)
	return Retry
}

func (m *Menu) deleteProduct(ctx context.Context) Outcome {
	code, err := m.prompt("Enter code: ")
	if err != nil {
		return Done
	}
	if err := m.inventory.Delete(ctx, code); err != nil {
		m.reportError(ctx, "delete product", err)
		return Retry
	}
	fmt.Fprintln(m.out, "Product removed from inventory.")
	return Retry
}

func (m *Menu) sellProduct(ctx context.Context) Outcome {
	code, err := m.prompt("Enter code: ")
	if err != nil {
		return Done
	}
	qty, err := m.prompt("Quantity: ")
	if err != nil {
		return Done
	}
	sold, err := m.inventory.Sell(ctx, code, qty)
	if err != nil {
		m.reportError(ctx, "sell product", err)
		return Retry
	}
	fmt.Fprintf(m.out, "Sale recorded: %s, %d units left in stock.\n", sold.Code, sold.Stock)
	return Retry
}

func (m *Menu) showReport(ctx context.Context) Outcome {
	summary, err := m.reports.Summary(ctx)
	if err != nil {
		m.reportError(ctx, "report", err)
		return Retry
	}
	fmt.Fprintln(m.out, "\n--- Inventory Report ---")
	fmt.Fprintf(m.out, "Distinct products:     %d\n", summary.DistinctProducts)
	fmt.Fprintf(m.out, "Total stock units:     %d\n", summary.TotalStockUnits)
	fmt.Fprintf(m.out, "Total inventory value: %s\n", summary.TotalInventoryValue)
	fmt.Fprintf(m.out, "Total units sold:      %d\n", summary.TotalUnitsSold)
	fmt.Fprintf(m.out, "Total sold value:      %s\n", summary.TotalSoldValue)

	low, err := m.reports.LowStock(ctx, m.reportCfg.LowStockThreshold)
	if err != nil {
		m.reportError(ctx, "report", err)
		return Retry
	}
	fmt.Fprintf(m.out, "\nLow stock (<= %d):\n", m.reportCfg.LowStockThreshold)
	if len(low) == 0 {
		fmt.Fprintln(m.out, "None.")
	} else {
		m.renderProducts(low)
	}

	top, err := m.reports.TopSellers(ctx, m.reportCfg.TopSellers)
	if err != nil {
		m.reportError(ctx, "report", err)
		return Retry
	}
	fmt.Fprintf(m.out, "\nTop %d sellers:\n", m.reportCfg.TopSellers)
	if len(top) == 0 {
		fmt.Fprintln(m.out, "None.")
	} else {
		m.renderProducts(top)
	}
	return Retry
}

// prompt prints the label and reads one trimmed line of input.
func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	line, err := m.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// reportError translates the error taxonomy into a user message. Every
// error is recoverable at this boundary; none terminates the session.
func (m *Menu) reportError(ctx context.Context, action string, err error) {
	switch {
	case errors.Is(err, ierrors.ErrProductNotFound):
		fmt.Fprintln(m.out, "Product not found.")
	case errors.Is(err, ierrors.ErrDuplicateCode):
		fmt.Fprintln(m.out, "Error: a product with that code already exists.")
	case errors.Is(err, ierrors.ErrInvalidInput):
		fmt.Fprintln(m.out, "Error: invalid input. Price must be a number and stock a non-negative integer.")
	case errors.Is(err, ierrors.ErrInsufficientStock):
		fmt.Fprintln(m.out, "Error: not enough stock for that sale.")
	case errors.Is(err, ierrors.ErrPersistence):
		fmt.Fprintln(m.out, "Error: could not save the inventory file. The change was not applied.")
		m.logger.ErrorContext(ctx, "failed to persist inventory", "action", action, "error", err)
	default:
		fmt.Fprintln(m.out, "Unexpected error, see log for details.")
		m.logger.ErrorContext(ctx, "operation failed", "action", action, "error", err)
	}
}

func (m *Menu) renderDtos(products []service.ProductDto) {
	w := tabwriter.NewWriter(m.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tPRICE\tSTOCK\tSOLD")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", p.Code, p.Name, p.Price, p.Stock, p.Sold)
	}
	w.Flush()
}

func (m *Menu) renderProducts(products []model.Product) {
	dtos := make([]service.ProductDto, len(products))
	for i, p := range products {
		dtos[i] = service.ProductDto{Code: p.Code, Name: p.Name, Price: p.Price, Stock: p.Stock, Sold: p.Sold}
	}
	m.renderDtos(dtos)
}
