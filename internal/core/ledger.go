package core

// Append adds a record built from f and returns the grown collection and the
// new record. The id is the last element's id + 1 (not the maximum), or 1
// for an empty collection.
func Append(txs []Transaction, f Fields) ([]Transaction, Transaction) {
	id := 1
	if n := len(txs); n > 0 {
		id = txs[n-1].ID + 1
	}
	t := Transaction{ID: id}
	t.apply(f)
	return append(txs, t), t
}

// FindByID returns the first record with the given id.
func FindByID(txs []Transaction, id int) (Transaction, bool) {
	for _, t := range txs {
		if t.ID == id {
			return t, true
		}
	}
	return Transaction{}, false
}

// Update replaces every field but the id of the first record matching id,
// keeping its position.
func Update(txs []Transaction, id int, f Fields) (Transaction, error) {
	for i := range txs {
		if txs[i].ID == id {
			txs[i].apply(f)
			return txs[i], nil
		}
	}
	return Transaction{}, ErrNotFound
}

// Delete drops every record with the given id and renumbers the survivors
// 1..N in their current order. A missing id is not an error; the returned
// flag tells whether anything was removed.
func Delete(txs []Transaction, id int) ([]Transaction, bool) {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if t.ID != id {
			out = append(out, t)
		}
	}
	removed := len(out) != len(txs)
	Renumber(out)
	return out, removed
}

// Renumber assigns ids 1..N in slice order.
func Renumber(txs []Transaction) {
	for i := range txs {
		txs[i].ID = i + 1
	}
}
