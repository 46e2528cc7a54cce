package sqlinline

// QCommitAnalysis persists a strategy and consumes one credit in a single
// statement. Pro users keep their balance. When the user has no entitlement
// nothing is inserted and no row comes back; callers map ErrNoRows to a
// quota error.
const QCommitAnalysis = `--sql 2cd436a5-6531-404c-9613-075b4f737f8d
with entitled as (
    select id, tier
    from users
    where id = $1::uuid
      and (tier = 'pro' or credits > 0)
    for update
),
spent as (
    update users u
    set credits = case when e.tier = 'pro' then u.credits else u.credits - 1 end,
        updated_at = now()
    from entitled e
    where u.id = e.id
    returning u.credits
),
inserted as (
    insert into analyses (id, user_id, payload, form_snapshot, created_at)
    select gen_random_uuid(), e.id, $2::jsonb, $3::jsonb, now()
    from entitled e
    returning id
)
select inserted.id, spent.credits
from inserted, spent;
`

const QListAnalyses = `--sql 4b685abc-f6a2-4dbc-aa9b-dc97b5f94981
select id, user_id, payload, form_snapshot, created_at
from analyses
where user_id = $1::uuid
order by created_at desc
limit $2::int;
`

const QSelectAnalysisByID = `--sql 235a1d60-3f90-4496-ae93-80811d2071a9
select id, user_id, payload, form_snapshot, created_at
from analyses
where id = $1::uuid
  and user_id = $2::uuid
limit 1;
`
