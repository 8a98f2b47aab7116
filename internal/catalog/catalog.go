// Package catalog holds the closed category catalog. Categories are
// static, partitioned by transaction type, and not user-extensible.
package catalog

import "finanzo/internal/core"

type Category struct {
	ID    string               `json:"id"`
	Label string               `json:"label"`
	Icon  string               `json:"icon"`
	Type  core.TransactionType `json:"type"`
}

// InvestmentsID identifies the category whose transactions also feed
// the first savings goal as a contribution.
const (
	InvestmentsID    = "investments"
	InvestmentsLabel = "Investimentos"
)

// Discretionary category labels watched by the daily challenge.
const (
	ExtraLabel   = "Extra"
	LeisureLabel = "Lazer"
)

var expenseCategories = []Category{
	{ID: "shopping", Label: "Compras", Icon: "shopping-cart", Type: core.Expense},
	{ID: "food", Label: "Comida", Icon: "utensils", Type: core.Expense},
	{ID: "phone", Label: "Telefone", Icon: "smartphone", Type: core.Expense},
	{ID: "entertainment", Label: "Entretenimento", Icon: "gamepad-2", Type: core.Expense},
	{ID: "education", Label: "Educação", Icon: "graduation-cap", Type: core.Expense},
	{ID: "beauty", Label: "Beleza", Icon: "scissors", Type: core.Expense},
	{ID: "sports", Label: "Esportes", Icon: "dumbbell", Type: core.Expense},
	{ID: "social", Label: "Social", Icon: "users", Type: core.Expense},
	{ID: "transport", Label: "Transporte", Icon: "bus", Type: core.Expense},
	{ID: "clothing", Label: "Roupas", Icon: "shirt", Type: core.Expense},
	{ID: "car", Label: "Carro", Icon: "car", Type: core.Expense},
	{ID: "drinks", Label: "Bebidas", Icon: "wine", Type: core.Expense},
	{ID: "electronics", Label: "Eletrônicos", Icon: "monitor", Type: core.Expense},
	{ID: "travel", Label: "Viagem", Icon: "plane", Type: core.Expense},
	{ID: "health", Label: "Saúde", Icon: "heart-pulse", Type: core.Expense},
	{ID: "pets", Label: "Pets", Icon: "cat", Type: core.Expense},
	{ID: "repairs", Label: "Reparos", Icon: "wrench", Type: core.Expense},
	{ID: "housing", Label: "Moradia", Icon: "home", Type: core.Expense},
	{ID: "home", Label: "Lar", Icon: "sofa", Type: core.Expense},
	{ID: "gifts", Label: "Presentes", Icon: "gift", Type: core.Expense},
	{ID: "donations", Label: "Doações", Icon: "heart-handshake", Type: core.Expense},
	{ID: "lottery", Label: "Loteria", Icon: "dices", Type: core.Expense},
	{ID: "snacks", Label: "Lanches", Icon: "coffee", Type: core.Expense},
	{ID: "kids", Label: "Filhos", Icon: "baby", Type: core.Expense},
	{ID: "vegetables", Label: "Vegetais", Icon: "carrot", Type: core.Expense},
	{ID: "fruits", Label: "Frutas", Icon: "apple", Type: core.Expense},
	{ID: "leisure", Label: LeisureLabel, Icon: "party-popper", Type: core.Expense},
	{ID: "extra", Label: ExtraLabel, Icon: "plus", Type: core.Expense},
}

var incomeCategories = []Category{
	{ID: "salary", Label: "Salário", Icon: "briefcase", Type: core.Income},
	{ID: "investments", Label: InvestmentsLabel, Icon: "trending-up", Type: core.Income},
	{ID: "part_time", Label: "Meio Período", Icon: "clock", Type: core.Income},
	{ID: "awards", Label: "Prêmios", Icon: "trophy", Type: core.Income},
	{ID: "others", Label: "Outros", Icon: "coins", Type: core.Income},
}

var transferCategories = []Category{
	{ID: "transfer", Label: "Transferência", Icon: "arrow-right-left", Type: core.Transfer},
}

var byID = func() map[string]Category {
	m := make(map[string]Category)
	for _, list := range [][]Category{expenseCategories, incomeCategories, transferCategories} {
		for _, c := range list {
			m[c.ID] = c
		}
	}
	return m
}()

// ByType returns the categories for one transaction type, in display order.
// The returned slice is a copy.
func ByType(t core.TransactionType) []Category {
	var src []Category
	switch t {
	case core.Expense:
		src = expenseCategories
	case core.Income:
		src = incomeCategories
	case core.Transfer:
		src = transferCategories
	default:
		return nil
	}
	out := make([]Category, len(src))
	copy(out, src)
	return out
}

// ByID looks a category up by its id across all types.
func ByID(id string) (Category, bool) {
	c, ok := byID[id]
	return c, ok
}

// Label resolves a category id to its display label, or "" when unknown.
func Label(id string) string {
	if c, ok := byID[id]; ok {
		return c.Label
	}
	return ""
}

// IsDiscretionary reports whether a category id belongs to the labels the
// daily challenge treats as discretionary spend.
func IsDiscretionary(id string) bool {
	c, ok := byID[id]
	if !ok {
		return false
	}
	return c.Label == ExtraLabel || c.Label == LeisureLabel
}
