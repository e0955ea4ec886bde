package migrations

import (
	"encoding/json"

	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

// Adds a unique index on the users callsign field so generated callsigns
// never collide.
func init() {
	m.Register(func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("_pb_users_auth_")
		if err != nil {
			return err
		}

		if err := json.Unmarshal([]byte(`{
			"indexes": [
				"CREATE UNIQUE INDEX `+"`"+`idx_tokenKey__pb_users_auth_`+"`"+` ON `+"`"+`users`+"`"+` (`+"`"+`tokenKey`+"`"+`)",
				"CREATE UNIQUE INDEX `+"`"+`idx_email__pb_users_auth_`+"`"+` ON `+"`"+`users`+"`"+` (`+"`"+`email`+"`"+`) WHERE `+"`"+`email`+"`"+` != ''",
				"CREATE UNIQUE INDEX `+"`"+`idx_callsign_users`+"`"+` ON `+"`"+`users`+"`"+` (`+"`"+`callsign`+"`"+`) WHERE `+"`"+`callsign`+"`"+` != ''"
			]
		}`), &collection); err != nil {
			return err
		}

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("_pb_users_auth_")
		if err != nil {
			return err
		}

		if err := json.Unmarshal([]byte(`{
			"indexes": [
				"CREATE UNIQUE INDEX `+"`"+`idx_tokenKey__pb_users_auth_`+"`"+` ON `+"`"+`users`+"`"+` (`+"`"+`tokenKey`+"`"+`)",
				"CREATE UNIQUE INDEX `+"`"+`idx_email__pb_users_auth_`+"`"+` ON `+"`"+`users`+"`"+` (`+"`"+`email`+"`"+`) WHERE `+"`"+`email`+"`"+` != ''"
			]
		}`), &collection); err != nil {
			return err
		}

		return app.Save(collection)
	})
}
