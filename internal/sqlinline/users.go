package sqlinline

const QUpsertUser = `--sql 70ac5d0f-3ee9-4b90-9e0d-8098ee4c304e
insert into users(id, email, name, tokens, subscription_plan, created_at)
values ($1::uuid, $2::text, $3::text, $4::int, $5::int, now())
on conflict (email) do update
set name = excluded.name
returning id, email, name, tokens, subscription_plan, created_at;
`

const QSelectUserByID = `--sql b39bc942-c08b-487d-aa93-0c888f496973
select id, email, name, tokens, subscription_plan, created_at
from users
where id = $1::uuid
limit 1;
`

const QSelectUserByEmail = `--sql 556835b5-b46d-4388-b782-8dd2bbddfb92
select id, email, name, tokens, subscription_plan, created_at
from users
where email = $1::text
limit 1;
`

const QSpendToken = `--sql 856d4623-21bc-4143-8e43-edd55849c2eb
update users
set tokens = tokens - 1
where id = $1::uuid and tokens > 0;
`

const QCreditTokens = `--sql a9eb6b58-ee28-462c-b511-96a68d024a9f
update users
set tokens = tokens + $2::int
where id = $1::uuid
returning tokens;
`

const QDeleteUser = `--sql 4b97bde7-569c-4ad7-be91-cac6eac1f3a0
delete from users
where id = $1::uuid;
`
