// Package grid строит модель сетки номеров розыгрыша для страницы
package grid

import (
	"fmt"
	"sort"

	"github.com/avc/rifa-storefront/internal/cart"
	"github.com/avc/rifa-storefront/internal/domain"
)

// CellState визуальное состояние ячейки
type CellState string

const (
	CellEmpty    CellState = "empty"
	CellSelected CellState = "selected"
	CellReserved CellState = "reserved"
	CellSold     CellState = "sold"
	CellLocked   CellState = "locked" // Свободен, но лимит выбора исчерпан
)

// Подсказки ячеек
const (
	titleSold     = "Vendido"
	titleReserved = "Reservado"
	titleDeselect = "Haz clic para deseleccionar"
	titleSelect   = "Haz clic para seleccionar"
)

// Cell одна ячейка сетки
type Cell struct {
	ID        string              `json:"id"`
	Number    int                 `json:"number"`
	Label     string              `json:"label"`
	Status    domain.NumberStatus `json:"status"`
	State     CellState           `json:"state"`
	Selected  bool                `json:"selected"`
	Clickable bool                `json:"clickable"`
	Title     string              `json:"title"`
}

// Counts количество номеров по статусам
type Counts struct {
	Available int `json:"available"`
	Reserved  int `json:"reserved"`
	Sold      int `json:"sold"`
}

// LegendEntry элемент легенды
type LegendEntry struct {
	State CellState `json:"state"`
	Label string    `json:"label"`
}

// Legend легенда сетки в порядке показа
var Legend = []LegendEntry{
	{State: CellEmpty, Label: "Disponible"},
	{State: CellSelected, Label: "Seleccionado"},
	{State: CellReserved, Label: "Reservado"},
	{State: CellSold, Label: "Vendido"},
}

// View модель сетки
type View struct {
	RaffleID      string        `json:"raffleId"`
	MaxPerUser    int           `json:"maxPerUser"`
	SelectedCount int           `json:"selectedCount"`
	CanAddMore    bool          `json:"canAddMore"`
	Disabled      bool          `json:"disabled"`
	Cells         []Cell        `json:"cells"`
	Counts        Counts        `json:"counts"`
	Legend        []LegendEntry `json:"legend"`
}

// Action результат клика по ячейке
type Action string

const (
	ActionNone   Action = "none"
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
)

// scoped возвращает выбор, относящийся к розыгрышу raffleID.
// Выбор другого розыгрыша в этой сетке не отображается.
func scoped(sel *cart.Selection, raffleID string) *cart.Selection {
	if sel == nil || sel.RaffleID() != raffleID {
		return nil
	}
	return sel
}

// Build строит сетку: ячейки по возрастанию номера, состояние каждой
// выводится заново из статуса сервера и текущего выбора.
func Build(numbers []domain.RaffleNumber, sel *cart.Selection, raffleID string, maxPerUser int, disabled bool) View {
	own := scoped(sel, raffleID)

	canAddMore := true
	selectedCount := 0
	if own != nil {
		canAddMore = own.Len() < limit(maxPerUser)
		selectedCount = own.Len()
	}

	sorted := make([]domain.RaffleNumber, len(numbers))
	copy(sorted, numbers)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })

	view := View{
		RaffleID:      raffleID,
		MaxPerUser:    maxPerUser,
		SelectedCount: selectedCount,
		CanAddMore:    canAddMore,
		Disabled:      disabled,
		Cells:         make([]Cell, 0, len(sorted)),
		Legend:        Legend,
	}

	for _, n := range sorted {
		selected := own != nil && own.IsNumberSelected(n.Number)
		view.Cells = append(view.Cells, buildCell(n, selected, canAddMore, disabled))

		switch n.Status {
		case domain.NumberStatusAvailable:
			view.Counts.Available++
		case domain.NumberStatusReserved:
			view.Counts.Reserved++
		case domain.NumberStatusSold:
			view.Counts.Sold++
		}
	}

	return view
}

func buildCell(n domain.RaffleNumber, selected, canAddMore, disabled bool) Cell {
	cell := Cell{
		ID:     n.ID,
		Number: n.Number,
		Label:  fmt.Sprintf("%02d", n.Number),
		Status: n.Status,
	}

	switch n.Status {
	case domain.NumberStatusSold:
		cell.State = CellSold
		cell.Title = titleSold
		return cell
	case domain.NumberStatusReserved:
		cell.State = CellReserved
		cell.Title = titleReserved
		return cell
	}

	cell.Selected = selected
	if selected {
		cell.State = CellSelected
		cell.Title = titleDeselect
	} else {
		cell.State = CellEmpty
		cell.Title = titleSelect
		if !canAddMore {
			cell.State = CellLocked
		}
	}

	cell.Clickable = !disabled && (selected || canAddMore)
	return cell
}

// Toggle определяет действие по клику на номер: чужие и недоступные
// номера игнорируются, выбранный снимается, свободный добавляется.
func Toggle(numbers []domain.RaffleNumber, sel *cart.Selection, raffleID string, number int, disabled bool) Action {
	if disabled {
		return ActionNone
	}

	status, ok := statusOf(numbers, number)
	if !ok || status != domain.NumberStatusAvailable {
		return ActionNone
	}

	if own := scoped(sel, raffleID); own != nil && own.IsNumberSelected(number) {
		return ActionRemove
	}
	return ActionAdd
}

func statusOf(numbers []domain.RaffleNumber, number int) (domain.NumberStatus, bool) {
	for _, n := range numbers {
		if n.Number == number {
			return n.Status, true
		}
	}
	return "", false
}

func limit(maxPerUser int) int {
	if maxPerUser <= 0 {
		return cart.DefaultMaxNumbers
	}
	return maxPerUser
}
