package sqlinline

const QSelectIntegrationToken = `--sql 6947b7fe-2d5b-45f0-8d9d-f7e028788778
SELECT token
FROM integration_tokens
WHERE provider = $1;
`

const QUpsertIntegrationToken = `--sql 3bf0bf49-3f04-49cd-a4a1-0c3004f19861
INSERT INTO integration_tokens (provider, token, properties, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (provider) DO UPDATE SET
    token = EXCLUDED.token,
    properties = EXCLUDED.properties,
    updated_at = now();
`
