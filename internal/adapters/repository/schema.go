package repository

// Schema for the SQL store. Safe to apply multiple times.
const schema = `
CREATE TABLE IF NOT EXISTS hackathon (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    results_date TIMESTAMP,
    first_prize TEXT,
    second_prize TEXT,
    third_prize TEXT,
    participant_prize TEXT
);

CREATE TABLE IF NOT EXISTS project (
    id TEXT NOT NULL,
    hackathon_id TEXT NOT NULL REFERENCES hackathon(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    description TEXT,
    team_name TEXT,
    display_name TEXT NOT NULL,
    technologies TEXT,
    final_score REAL,
    seq INTEGER NOT NULL,
    PRIMARY KEY (hackathon_id, id)
);

CREATE INDEX IF NOT EXISTS idx_project_hackathon ON project(hackathon_id, seq);

CREATE TABLE IF NOT EXISTS judge_score (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    hackathon_id TEXT NOT NULL,
    project_id TEXT NOT NULL,
    judge_id TEXT NOT NULL,
    total_score REAL,
    submitted_at TIMESTAMP NOT NULL,
    feedback TEXT,
    FOREIGN KEY (hackathon_id, project_id) REFERENCES project(hackathon_id, id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_judge_score_project ON judge_score(hackathon_id, project_id);

CREATE TABLE IF NOT EXISTS criterion_score (
    judge_score_id INTEGER NOT NULL REFERENCES judge_score(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    title TEXT NOT NULL,
    score REAL NOT NULL,
    max_score REAL NOT NULL,
    PRIMARY KEY (judge_score_id, position)
);
`
