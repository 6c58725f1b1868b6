package cmd

import (
	"go.uber.org/dig"

	"github.com/orchesto/flowstore/application"
	storagePkg "github.com/orchesto/flowstore/infrastructure/storage"
	"github.com/orchesto/flowstore/infrastructure/storage/bitbucket"
)

func injectFetchService() *application.FetchService {
	container := dig.New()

	if err := container.Provide(buildStorageRegistry); err != nil {
		panic(err)
	}
	if err := container.Provide(application.NewFetchService); err != nil {
		panic(err)
	}

	var service *application.FetchService
	if err := container.Invoke(func(svc *application.FetchService) {
		service = svc
	}); err != nil {
		panic(err)
	}

	return service
}

func buildStorageRegistry() *storagePkg.Registry {
	reg := storagePkg.NewRegistry()
	reg.Register(bitbucket.Kind, bitbucket.FromConfig)
	return reg
}
