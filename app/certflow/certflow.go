package main

import (
	formatter "github.com/bluexlab/logrus-formatter"
	"github.com/certflow/certflow/pkg/certflow/cli"
)

func main() {
	formatter.InitLogger()
	app := cli.App{}
	app.Run()
}
