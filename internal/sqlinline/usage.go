package sqlinline

const QInsertUsageEvent = `--sql 8f9f077d-32c3-4340-834b-508f5b21d4ec
insert into usage_events (id, user_id, request_id, event_type, success, latency_ms, created_at, properties)
values (gen_random_uuid(), $1::uuid, $2::uuid, $3::text, $4::boolean, $5::int, now(), coalesce($6::jsonb, '{}'::jsonb));
`
