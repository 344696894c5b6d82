// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sqlite

// migrations[i] upgrades the schema from version i to version i+1.
var migrations = []string{
	`
CREATE TABLE anime (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT    NOT NULL CHECK (length(trim(name)) > 0)
);

CREATE INDEX idx_anime_name ON anime(name);
`,
	`
CREATE TABLE user_account (
	id           TEXT PRIMARY KEY,
	username     TEXT NOT NULL UNIQUE,
	passwordhash TEXT NOT NULL,
	role         TEXT NOT NULL CHECK (role IN ('USER', 'ADMIN')),
	createdat    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`,
}
