package sqlinline

const QSelectProviderKey = `--sql 6a271bd6-088e-44fd-920e-7888d53c6225
select api_key
from provider_credentials
where provider = $1::text
limit 1;
`

const QUpsertProviderKey = `--sql d54671a5-5172-4781-bc90-9f5a88cbd3e8
with incoming as (
    select
        $1::text as provider,
        $2::text as api_key,
        coalesce($3::jsonb, '{}'::jsonb) as properties
)
insert into provider_credentials (id, provider, api_key, properties, created_at, updated_at)
values (gen_random_uuid(), (select provider from incoming), (select api_key from incoming), (select properties from incoming), now(), now())
on conflict (provider) do update set
    api_key = excluded.api_key,
    properties = excluded.properties,
    updated_at = now();
`
