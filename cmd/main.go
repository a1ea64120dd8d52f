package main

import (
	"github.com/lojinha/storefront/internal/app"
	"github.com/lojinha/storefront/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
