package main

import (
	_ "github.com/engmhisham/utg-api/docs"

	"github.com/engmhisham/utg-api/cmd"
)

// @title                       UTG CMS API
// @version                     1.0
// @description                 Content management backend: content modules, media library and usage tracking.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cmd.Execute()
}
