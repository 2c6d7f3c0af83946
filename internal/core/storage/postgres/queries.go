package postgres

// SQL queries for the raw-record archive.

const (
	// querySaveRecord inserts a record idempotently on its ID.
	// RETURNING retrieves the auto-generated ingest_seq for cursor reads.
	// ON CONFLICT DO NOTHING returns no rows (sql.ErrNoRows) for duplicates.
	querySaveRecord = `
		INSERT INTO messages (id, author, message, observed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
		RETURNING ingest_seq
	`

	// queryRetrieveRecordsAfterCursor fetches records after a cursor
	// (ingest_seq) in strict total order.
	queryRetrieveRecordsAfterCursor = `
		SELECT id, author, message, observed_at, ingest_seq
		FROM messages
		WHERE ingest_seq > $1
		ORDER BY ingest_seq ASC
		LIMIT $2
	`
)
