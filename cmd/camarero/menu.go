package main

import (
	"fmt"

	"github.com/ilcamarero/camarero/menu"
)

// MenuCmd prints the fixed menu catalog
type MenuCmd struct{}

func (c *MenuCmd) Run() error {
	for _, category := range menu.Categories {
		fmt.Printf("%s\n", category)
		for _, item := range menu.Dishes(category) {
			fmt.Printf("  %-28s %s / %s\n", item.Dish, item.Variants[0], item.Variants[1])
		}
		fmt.Println()
	}
	return nil
}
