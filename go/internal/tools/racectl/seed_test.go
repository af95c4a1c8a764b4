package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSeed = `
event:
  admin_id: 0b6c9d1e-3f4a-4b5c-8d7e-9f0a1b2c3d4e
  slug: khao-yai-enduro-2026
  name: Khao Yai Enduro
  race_date: "2026-03-01"
  published: true
checkpoints:
  - {name: Start, sort_order: 1}
  - {name: Ridge, sort_order: 2}
  - {name: Finish, sort_order: 3}
classes:
  - name: Open
    sort_order: 1
  - name: Amateur
    sort_order: 2
    checkpoints: [Start, Ridge]
racers:
  - name: Somchai P.
    team: Korat Riders
    entries:
      - {class: Open, race_number: 42}
  - name: Anan K.
    entries:
      - {class: Open, race_number: 7}
      - {class: Amateur, race_number: 7}
`

func TestParseSeedFile(t *testing.T) {
	seed, raceDate, err := parseSeedFile([]byte(validSeed))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), raceDate)
	assert.Equal(t, "0b6c9d1e-3f4a-4b5c-8d7e-9f0a1b2c3d4e", seed.Event.AdminID.String())
	require.Len(t, seed.Racers, 2)
	require.NotNil(t, seed.Racers[0].Team)
	assert.Equal(t, "Korat Riders", *seed.Racers[0].Team)
	assert.Nil(t, seed.Racers[1].Team)
	assert.Equal(t, []string{"Start", "Ridge"}, seed.Classes[1].Checkpoints)
}

func TestParseSeedFileAcceptsJSON(t *testing.T) {
	_, _, err := parseSeedFile([]byte(`{"event":{"admin_id":"0b6c9d1e-3f4a-4b5c-8d7e-9f0a1b2c3d4e","slug":"s","name":"n","race_date":"2026-03-01"}}`))
	assert.NoError(t, err)
}

func TestParseSeedFileRejects(t *testing.T) {
	cases := map[string]struct {
		body string
		want string
	}{
		"bad date": {
			body: `{"event":{"admin_id":"0b6c9d1e-3f4a-4b5c-8d7e-9f0a1b2c3d4e","slug":"s","name":"n","race_date":"01/03/2026"}}`,
			want: "race_date",
		},
		"missing admin": {
			body: `{"event":{"slug":"s","name":"n","race_date":"2026-03-01"}}`,
			want: "admin_id",
		},
		"unknown class": {
			body: `{"event":{"admin_id":"0b6c9d1e-3f4a-4b5c-8d7e-9f0a1b2c3d4e","slug":"s","name":"n","race_date":"2026-03-01"},"racers":[{"name":"A","entries":[{"class":"Pro","race_number":1}]}]}`,
			want: `unknown class "Pro"`,
		},
		"number reused": {
			body: `{"event":{"admin_id":"0b6c9d1e-3f4a-4b5c-8d7e-9f0a1b2c3d4e","slug":"s","name":"n","race_date":"2026-03-01"},"classes":[{"name":"Open"}],"racers":[{"name":"A","entries":[{"class":"Open","race_number":5}]},{"name":"B","entries":[{"class":"Open","race_number":5}]}]}`,
			want: "race number 5 used twice",
		},
		"single mapped checkpoint": {
			body: `{"event":{"admin_id":"0b6c9d1e-3f4a-4b5c-8d7e-9f0a1b2c3d4e","slug":"s","name":"n","race_date":"2026-03-01"},"checkpoints":[{"name":"Start","sort_order":1}],"classes":[{"name":"Open","checkpoints":["Start"]}]}`,
			want: "at least two",
		},
		"duplicate checkpoint": {
			body: `{"event":{"admin_id":"0b6c9d1e-3f4a-4b5c-8d7e-9f0a1b2c3d4e","slug":"s","name":"n","race_date":"2026-03-01"},"checkpoints":[{"name":"Start","sort_order":1},{"name":"Start","sort_order":2}]}`,
			want: "duplicate checkpoint names",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := parseSeedFile([]byte(tc.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"migrate", "seed", "rotate-codes"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("db-url"))
}
