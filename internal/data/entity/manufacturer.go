package entity

type Manufacturer struct {
	BaseSimple
	Name string `db:"name"`
}
