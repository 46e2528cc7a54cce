package sqlinline

const QInsertUser = `--sql 6e878ca2-c937-4499-8f89-29a1819b4ec0
insert into users (id, email, name, password_hash, ghin_number, role, tier, credits, created_at, updated_at)
values (gen_random_uuid(), lower($1::text), $2::text, $3::text, nullif($4::text, ''), 'user', 'free', 0, now(), now())
on conflict (email) do nothing
returning id, email, name, coalesce(ghin_number, ''), role, tier, credits, created_at, updated_at;
`

const QSelectUserByEmail = `--sql d86c1473-3111-44a1-bb07-da2d4b74599a
select id, email, name, password_hash, coalesce(ghin_number, ''), role, tier, credits, created_at, updated_at
from users
where email = lower($1::text)
limit 1;
`

const QSelectUserByID = `--sql 211fa187-6b46-40ac-b254-cdf543cfe776
select id, email, name, coalesce(ghin_number, ''), role, tier, credits, created_at, updated_at
from users
where id = $1::uuid
limit 1;
`

// QAdminAdjustUser updates tier and/or grants credits by id or email.
// Used by the ops CLI, not by the API surface.
const QAdminAdjustUser = `--sql 9f39bc11-23d8-4041-aff9-e44c1e7d5d33
update users
set tier = coalesce(nullif($3::text, ''), tier),
    credits = credits + $4::int,
    updated_at = now()
where ($1::uuid is not null and id = $1::uuid)
   or ($2::text <> '' and email = lower($2::text))
returning id, email, tier, credits;
`
