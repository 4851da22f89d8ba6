package templates

// Schema contains the DDL for template persistence.
const Schema = `
CREATE TABLE IF NOT EXISTS templates (
    domain              TEXT NOT NULL,
    page_type           TEXT NOT NULL,
    schema_name         TEXT NOT NULL DEFAULT '',
    has_main            INTEGER NOT NULL DEFAULT 0,
    has_structured_data INTEGER NOT NULL DEFAULT 0,
    metadata_source     TEXT NOT NULL DEFAULT '',
    fields_found        TEXT NOT NULL DEFAULT '[]',
    card_strategy       TEXT NOT NULL DEFAULT '',
    page_param          TEXT NOT NULL DEFAULT '',
    removal_ratio       REAL NOT NULL DEFAULT 0,
    selection_ratio     REAL NOT NULL DEFAULT 0,
    updated_at          INTEGER NOT NULL,
    PRIMARY KEY (domain, page_type)
);
CREATE INDEX IF NOT EXISTS idx_templates_updated ON templates(updated_at);
`
