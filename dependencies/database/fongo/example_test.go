package fongo_test

import (
	"context"
	"fmt"

	"github.com/ti/fongo/dependencies/database"
	"github.com/ti/fongo/dependencies/database/fongo"
)

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

func ExampleFongo() {
	ctx := context.Background()
	client := fongo.New("shop")

	orders := client.DB("orders")
	fmt.Println(client)
	fmt.Println(client.DB("orders") == orders)

	names, _ := client.ListDatabaseNames(ctx)
	fmt.Println(names)

	_ = client.DropDatabase(ctx, "orders")
	names, _ = client.ListDatabaseNames(ctx)
	fmt.Println(names)
	fmt.Println(client.DB("orders") == orders)
	// Output:
	// Fongo (shop)
	// true
	// [orders]
	// []
	// false
}

func ExampleDB() {
	ctx := context.Background()

	db, err := database.New(ctx, "fongo://local/myapp")
	if err != nil {
		panic(err)
	}
	defer db.Close(ctx)

	user := &User{
		ID:    1,
		Name:  "Alice",
		Email: "alice@example.com",
		Age:   25,
	}
	if err = db.InsertOne(ctx, "users", user); err != nil {
		panic(err)
	}

	var result User
	err = db.FindOne(ctx, "users",
		database.C{{Key: "id", Value: int64(1)}},
		&result)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Found user: %s\n", result.Name)
	// Output: Found user: Alice
}

func ExampleDB_conditions() {
	ctx := context.Background()
	db := fongo.New("local").DB("testdb")

	users := []*User{
		{ID: 1, Name: "Alice", Age: 20},
		{ID: 2, Name: "Bob", Age: 25},
		{ID: 3, Name: "Charlie", Age: 30},
	}
	_, _ = db.Insert(ctx, "users", users)

	var results []User
	_ = db.Find(ctx, "users",
		database.C{{Key: "age", Value: 22, C: database.Gt}},
		[]string{"-age"},
		10,
		&results)

	for _, u := range results {
		fmt.Printf("%s: %d\n", u.Name, u.Age)
	}
	// Output:
	// Charlie: 30
	// Bob: 25
}

func ExampleDB_counter() {
	ctx := context.Background()
	db := fongo.New("local").DB("testdb")

	_ = db.IncrCounter(ctx, "stats", "page_views", 0, 1)
	_ = db.IncrCounter(ctx, "stats", "page_views", 0, 1)
	_ = db.IncrCounter(ctx, "stats", "page_views", 0, 1)

	value, _ := db.GetCounter(ctx, "stats", "page_views")
	fmt.Printf("Page views: %d\n", value)
	// Output: Page views: 3
}

func ExampleDB_transaction() {
	ctx := context.Background()
	db := fongo.New("local").DB("testdb")

	tx, _ := db.StartTransaction(ctx)
	_ = db.WithTransaction(ctx, tx).InsertOne(ctx, "users", &User{ID: 1, Name: "Bob", Age: 30})
	_ = tx.Rollback()

	count, _ := db.Count(ctx, "users", nil)
	fmt.Printf("Users after rollback: %d\n", count)
	// Output: Users after rollback: 0
}
