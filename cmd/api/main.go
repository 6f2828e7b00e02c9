package main

import (
	"log"

	"github.com/kizerek321/gem-portfolio-tracker/cmd"
)

func main() {
	apiHandler, err := cmd.InitializeDependencies()
	if err != nil {
		log.Fatal(err)
	}
	defer cmd.CloseDependencies(apiHandler)

	err = apiHandler.StartApi(apiHandler.Port)
	if err != nil {
		log.Fatal(err)
	}
}
