package sqlinline

const QInsertRound = `--sql c7c62ace-f4bd-4024-8cf3-2c347648b02e
insert into rounds (id, user_id, course_name, date_played, score, par, notes, created_at)
values (gen_random_uuid(), $1::uuid, $2::text, $3::date, $4::int, $5::int, $6::text, now())
returning id, created_at;
`

const QListRounds = `--sql 9a6cf629-bd25-4354-b6a7-d049c94df7ce
select id, user_id, course_name, date_played, score, par, coalesce(notes, ''), created_at
from rounds
where user_id = $1::uuid
order by date_played desc, created_at desc
limit $2::int;
`
