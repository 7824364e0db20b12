package main

import (
	"github.com/hugodiana/BariPlus-sub001/config"
	"github.com/hugodiana/BariPlus-sub001/routes"
	"github.com/hugodiana/BariPlus-sub001/services"
)

func main() {
	config.InitDB()

	r, goalSvc := routes.SetupRouter()

	sweeper := services.StartScheduler(goalSvc)
	defer sweeper.Stop()

	r.Run(":8080")
}
