package cart

import (
	"encoding/json"
	"slices"
)

// DefaultMaxNumbers лимит номеров, если вызывающий его не передал
const DefaultMaxNumbers = 10

// Selection набор номеров, выбранных посетителем в одном розыгрыше.
// Нулевое значение пустое и готово к использованию.
// Недопустимые операции ничего не меняют и возвращают false.
type Selection struct {
	numbers    []int
	raffleID   string // Пустая строка, если набор пуст
	maxNumbers int
}

// NewSelection создает пустой набор с лимитом maxNumbers
func NewSelection(maxNumbers int) *Selection {
	if maxNumbers <= 0 {
		maxNumbers = DefaultMaxNumbers
	}
	return &Selection{maxNumbers: maxNumbers}
}

// Add добавляет номер. Если набор относится к другому розыгрышу, прежний
// выбор отбрасывается и switched = true. Лимит и повтор номера проверяются
// только в рамках текущего розыгрыша.
func (s *Selection) Add(number int, raffleID string, maxNumbers int) (added, switched bool) {
	if maxNumbers <= 0 {
		maxNumbers = DefaultMaxNumbers
	}

	if s.raffleID != "" && s.raffleID != raffleID {
		s.numbers = []int{number}
		s.raffleID = raffleID
		s.maxNumbers = maxNumbers
		return true, true
	}

	if len(s.numbers) >= maxNumbers {
		return false, false
	}
	if slices.Contains(s.numbers, number) {
		return false, false
	}

	s.numbers = append(s.numbers, number)
	s.raffleID = raffleID
	s.maxNumbers = maxNumbers
	return true, false
}

// AddNumber добавляет номер и сообщает, удалось ли это
func (s *Selection) AddNumber(number int, raffleID string, maxNumbers int) bool {
	added, _ := s.Add(number, raffleID, maxNumbers)
	return added
}

// RemoveNumber удаляет номер. Когда набор пустеет, розыгрыш сбрасывается.
func (s *Selection) RemoveNumber(number int) {
	s.numbers = slices.DeleteFunc(s.numbers, func(n int) bool { return n == number })
	if len(s.numbers) == 0 {
		s.numbers = nil
		s.raffleID = ""
	}
}

// Clear очищает набор и сбрасывает розыгрыш. Лимит сохраняется.
func (s *Selection) Clear() {
	s.numbers = nil
	s.raffleID = ""
}

// IsNumberSelected сообщает, выбран ли номер
func (s *Selection) IsNumberSelected(number int) bool {
	return slices.Contains(s.numbers, number)
}

// CanAddMore сообщает, есть ли место для еще одного номера
func (s *Selection) CanAddMore() bool {
	return len(s.numbers) < s.MaxNumbers()
}

// Numbers возвращает копию выбранных номеров в порядке добавления
func (s *Selection) Numbers() []int {
	return slices.Clone(s.numbers)
}

// Len возвращает количество выбранных номеров
func (s *Selection) Len() int {
	return len(s.numbers)
}

// RaffleID возвращает розыгрыш набора или пустую строку
func (s *Selection) RaffleID() string {
	return s.raffleID
}

// MaxNumbers возвращает текущий лимит номеров
func (s *Selection) MaxNumbers() int {
	if s.maxNumbers <= 0 {
		return DefaultMaxNumbers
	}
	return s.maxNumbers
}

// persisted формат хранения набора
type persisted struct {
	SelectedNumbers []int   `json:"selectedNumbers"`
	RaffleID        *string `json:"raffleId"`
	MaxNumbers      int     `json:"maxNumbers"`
}

// MarshalJSON сохраняет набор как {"selectedNumbers","raffleId","maxNumbers"}
func (s *Selection) MarshalJSON() ([]byte, error) {
	p := persisted{
		SelectedNumbers: s.numbers,
		MaxNumbers:      s.MaxNumbers(),
	}
	if p.SelectedNumbers == nil {
		p.SelectedNumbers = []int{}
	}
	if s.raffleID != "" {
		id := s.raffleID
		p.RaffleID = &id
	}
	return json.Marshal(p)
}

// UnmarshalJSON восстанавливает набор, отбрасывая повторы номеров
func (s *Selection) UnmarshalJSON(data []byte) error {
	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	s.numbers = nil
	for _, n := range p.SelectedNumbers {
		if !slices.Contains(s.numbers, n) {
			s.numbers = append(s.numbers, n)
		}
	}

	s.raffleID = ""
	if p.RaffleID != nil && len(s.numbers) > 0 {
		s.raffleID = *p.RaffleID
	}
	s.maxNumbers = p.MaxNumbers

	return nil
}
