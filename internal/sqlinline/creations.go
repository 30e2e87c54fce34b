package sqlinline

const QInsertCreation = `--sql 64104dd7-e88d-407f-b6f3-a9786e9e3afd
insert into creations(id, owner_id, slides, quiz, age_group, created_at)
values ($1::uuid, $2::uuid, $3::jsonb, $4::jsonb, $5::text, now())
returning created_at;
`

const QSelectCreation = `--sql d2abed6a-c116-4c5e-95bd-a528640433d7
select id, owner_id, slides, quiz, age_group, created_at
from creations
where id = $1::uuid and owner_id = $2::uuid
limit 1;
`

const QListCreations = `--sql 48d77b81-5408-47c0-a7f8-e67c6404a7e9
select id, owner_id, slides, quiz, age_group, created_at
from creations
where owner_id = $1::uuid
order by created_at desc;
`

const QUpdateCreationSlides = `--sql 7cb9251d-6520-4275-8358-bb533bd1d289
update creations
set slides = $3::jsonb
where id = $1::uuid and owner_id = $2::uuid;
`

const QDeleteCreation = `--sql da61b5fb-2277-4f11-a486-04362de2fbed
delete from creations
where id = $1::uuid and owner_id = $2::uuid
returning slides;
`

const QSelectOwnerSlides = `--sql c9eebcbe-469e-47e8-b990-70d3262f3e59
select slides
from creations
where owner_id = $1::uuid;
`
