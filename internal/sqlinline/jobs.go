// Package sqlinline holds every SQL statement the service executes. Each
// constant begins with a "--sql <uuid>" marker consumed by infra.SQLRunner for
// log correlation and enforced by the sqllint tool.
package sqlinline

const QInsertJob = `--sql 9738fb34-4193-446d-87fd-d6ed4e10cd0f
INSERT INTO jobs (
    id, user_id, kind, provider, external_task_id,
    prompt, width, height, duration_seconds,
    status, result_urls, thumbnail_url, error_code, error_message,
    created_at, completed_at
) VALUES (
    $1, $2, $3, $4, $5,
    $6, $7, $8, $9,
    $10, $11, $12, $13, $14,
    $15, $16
);
`

const selectJobColumns = `
    id, user_id, kind, provider, external_task_id,
    prompt, width, height, duration_seconds,
    status, result_urls, thumbnail_url, error_code, error_message,
    created_at, completed_at, polled_at
`

const QSelectJobByID = `--sql 05cf339a-2062-451b-ad4e-061d974db0fd
SELECT` + selectJobColumns + `
FROM jobs
WHERE id = $1;
`

const QSelectJobForUser = `--sql fcf4d4e2-dd83-4a18-b09f-1c83f4ad1e41
SELECT` + selectJobColumns + `
FROM jobs
WHERE id = $1 AND user_id = $2;
`

const QListJobsForUser = `--sql 0ed9b025-ecc6-436f-8dbe-d0b845aa59a0
SELECT` + selectJobColumns + `
FROM jobs
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2;
`

// The status guard makes terminal transitions idempotent: a second identical
// update matches zero rows and leaves completed_at and result_urls untouched.
const QCompleteJob = `--sql 0c3ccd3e-ee65-4646-880d-f97e2bbdf10e
UPDATE jobs
SET status = $2,
    result_urls = $3,
    thumbnail_url = $4,
    error_code = $5,
    error_message = $6,
    completed_at = $7
WHERE id = $1 AND status = 'pending';
`

const QTouchJobPolled = `--sql 46d7d3a4-bd49-43d1-b61d-9cadc00545d2
UPDATE jobs
SET polled_at = $2
WHERE id = $1;
`

const QListPollDueJobs = `--sql 9c5d4bf9-7b6d-4a27-aa6b-ee99ec7ef472
SELECT` + selectJobColumns + `
FROM jobs
WHERE status = 'pending'
  AND external_task_id <> ''
  AND (polled_at IS NULL OR polled_at < $1)
ORDER BY created_at ASC
LIMIT $2;
`
