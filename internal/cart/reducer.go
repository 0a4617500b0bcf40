package cart

import "github.com/ramesh9813/bagshop-client-sub000/internal/domain"

type ActionType string

const (
	ActionReplace     ActionType = "replace"
	ActionAdd         ActionType = "add"
	ActionSetQuantity ActionType = "set-quantity"
	ActionRemove      ActionType = "remove"
	ActionClear       ActionType = "clear"
)

type Action struct {
	Type      ActionType
	Product   domain.Product
	ProductID string
	Quantity  int
	Snapshot  domain.CartSnapshot
}

func Replace(s domain.CartSnapshot) Action { return Action{Type: ActionReplace, Snapshot: s} }
func Add(p domain.Product, qty int) Action { return Action{Type: ActionAdd, Product: p, Quantity: qty} }
func SetQuantity(id string, qty int) Action {
	return Action{Type: ActionSetQuantity, ProductID: id, Quantity: qty}
}
func Remove(id string) Action { return Action{Type: ActionRemove, ProductID: id} }
func Clear() Action           { return Action{Type: ActionClear} }

// Reduce is a pure transition; state is never modified in place. Actions that would
// break the one-line-per-product or positive-quantity invariants leave state as is.
func Reduce(state domain.CartSnapshot, a Action) domain.CartSnapshot {
	switch a.Type {
	case ActionReplace:
		return Normalize(a.Snapshot)

	case ActionAdd:
		if a.Quantity < 1 || a.Product.ID == "" {
			return state
		}
		next := state.Clone()
		if i := next.Find(a.Product.ID); i >= 0 {
			next.Items[i].Quantity += a.Quantity
			next.Items[i].Product = a.Product
			return next
		}
		next.Items = append(next.Items, domain.CartLine{Product: a.Product, Quantity: a.Quantity})
		return next

	case ActionSetQuantity:
		i := state.Find(a.ProductID)
		if a.Quantity < 1 || i < 0 {
			return state
		}
		next := state.Clone()
		next.Items[i].Quantity = a.Quantity
		return next

	case ActionRemove:
		if state.Find(a.ProductID) < 0 {
			return state
		}
		next := domain.CartSnapshot{Items: make([]domain.CartLine, 0, len(state.Items)-1)}
		for _, line := range state.Items {
			if line.Product.ID != a.ProductID {
				next.Items = append(next.Items, line)
			}
		}
		return next

	case ActionClear:
		return domain.CartSnapshot{}
	}
	return state
}

// Normalize drops lines without a product id or with a non-positive quantity and
// folds duplicate product ids into the first occurrence.
func Normalize(s domain.CartSnapshot) domain.CartSnapshot {
	out := domain.CartSnapshot{}
	for _, line := range s.Items {
		if line.Product.ID == "" || line.Quantity < 1 {
			continue
		}
		if i := out.Find(line.Product.ID); i >= 0 {
			out.Items[i].Quantity += line.Quantity
			continue
		}
		out.Items = append(out.Items, line)
	}
	return out
}
