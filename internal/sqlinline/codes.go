package sqlinline

// QRedeemCode marks a single-use trial code as redeemed and grants its
// credits to the user in one statement. No row back means the code is
// unknown or already spent.
const QRedeemCode = `--sql ce0dee51-ff0c-4141-8828-5186efb2e441
with code as (
    update trial_codes
    set redeemed_by = $2::uuid,
        redeemed_at = now()
    where code = $1::text
      and redeemed_by is null
      and (expires_at is null or expires_at > now())
    returning credits
),
granted as (
    update users
    set credits = credits + (select credits from code),
        updated_at = now()
    where id = $2::uuid
      and exists (select 1 from code)
    returning credits
)
select (select credits from code) as granted, granted.credits as remaining
from granted;
`
