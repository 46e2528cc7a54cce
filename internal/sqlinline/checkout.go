package sqlinline

const QInsertCheckoutSession = `--sql dd309a7c-6040-4cec-9eb5-1390e76710f9
insert into checkout_sessions (id, user_id, plan_id, provider_session_id, status, created_at, updated_at)
values (gen_random_uuid(), $1::uuid, $2::text, $3::text, 'pending', now(), now())
returning id;
`

// QCompleteCheckoutSession flips a pending session to completed and applies
// the plan grant: pro plans switch tier, credit packs add credits. A session
// already completed yields no row, which keeps webhook retries idempotent.
const QCompleteCheckoutSession = `--sql a49cfe57-1274-4656-bc90-c27f63bb893f
with session as (
    update checkout_sessions
    set status = 'completed',
        updated_at = now()
    where provider_session_id = $1::text
      and status = 'pending'
    returning user_id, plan_id
),
applied as (
    update users u
    set tier = case when $2::text = 'pro' then 'pro' else u.tier end,
        credits = u.credits + $3::int,
        updated_at = now()
    from session s
    where u.id = s.user_id
    returning u.id, u.tier, u.credits
)
select applied.id, applied.tier, applied.credits
from applied;
`
