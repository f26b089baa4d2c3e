// Package postgresengine provides the PostgreSQL implementations of the
// circulation ledger's storage contracts: a book store keeping one row per
// Book with the active loans serialized as JSONB, and a statistics store
// keeping the whole counter document as a single JSONB row.
//
// Both engines work with pgxpool.Pool, sql.DB and sqlx.DB through the
// internal adapter layer, build their SQL with goqu, and accept optional
// logging, metrics and tracing collectors via functional options.
//
// Expected schema:
//
//	CREATE TABLE books (
//	    id               uuid PRIMARY KEY,
//	    title            text NOT NULL,
//	    author           text NOT NULL,
//	    category         text NOT NULL,
//	    total_quantity   integer NOT NULL,
//	    healthy          integer NOT NULL,
//	    damaged          integer NOT NULL,
//	    lost             integer NOT NULL,
//	    quantity         integer NOT NULL,
//	    shelf            text NOT NULL DEFAULT '',
//	    publisher        text NOT NULL DEFAULT '',
//	    summary          text NOT NULL DEFAULT '',
//	    book_number      text NOT NULL DEFAULT '',
//	    publication_year integer NOT NULL DEFAULT 0,
//	    page_count       integer NOT NULL DEFAULT 0,
//	    last_handled_by  text NOT NULL DEFAULT '',
//	    loans            jsonb NOT NULL DEFAULT '[]'
//	);
//
//	CREATE TABLE circulation_statistics (
//	    id       text PRIMARY KEY,
//	    document jsonb NOT NULL
//	);
//
// Search folding happens inside SQL so the database can match Turkish
// spellings without a round trip: columns are passed through translate()
// and lower() before the substring comparison, mirroring textfold.Fold.
package postgresengine
