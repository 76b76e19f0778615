package sqlinline

const QIncrementDailyCounters = `--sql ebd46b9a-6de4-4278-b333-424fa001f104
INSERT INTO analytics_daily (
    day, jobs_submitted, jobs_succeeded, jobs_failed, images_generated, videos_generated
) VALUES (
    $1, $2, $3, $4, $5, $6
) ON CONFLICT (day) DO UPDATE SET
    jobs_submitted = analytics_daily.jobs_submitted + EXCLUDED.jobs_submitted,
    jobs_succeeded = analytics_daily.jobs_succeeded + EXCLUDED.jobs_succeeded,
    jobs_failed = analytics_daily.jobs_failed + EXCLUDED.jobs_failed,
    images_generated = analytics_daily.images_generated + EXCLUDED.images_generated,
    videos_generated = analytics_daily.videos_generated + EXCLUDED.videos_generated,
    updated_at = now();
`

const QSelectAnalyticsSummary = `--sql 8a7a366e-e433-48cb-9440-a07e20e0900c
SELECT day, jobs_submitted, jobs_succeeded, jobs_failed, images_generated, videos_generated, created_at, updated_at
FROM analytics_daily
ORDER BY day DESC
LIMIT 1;
`
