package main

import "task-manager/internal/app"

func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	app.MustConnectPostgres()
	defer app.DisconnectPostgres()
	app.MustMigratePostgres()

	app.MustStartNotifier()
	defer app.StopNotifier()

	app.MustListenAndServeHTTP()
}
