package postgres

// rowScanner is satisfied by both pgx.Row and pgx.Rows, letting scan helpers
// work whether they're handed a single QueryRow result or a Rows iterator.
type rowScanner interface {
	Scan(dest ...any) error
}
