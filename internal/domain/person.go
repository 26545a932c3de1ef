package domain

// PhoneFilter narrows allPersons by whether a person has a phone.
type PhoneFilter string

const (
	PhoneAny PhoneFilter = ""
	PhoneYes PhoneFilter = "YES"
	PhoneNo  PhoneFilter = "NO"
)

type Person struct {
	ID     string `json:"id" bson:"id"`
	Name   string `json:"name" bson:"name"`
	Phone  string `json:"phone,omitempty" bson:"phone,omitempty"`
	Street string `json:"street" bson:"street"`
	City   string `json:"city" bson:"city"`
}

// Address is never stored; it is projected from Street and City.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
}

func (p *Person) Address() Address {
	return Address{Street: p.Street, City: p.City}
}

func (p *Person) HasPhone() bool {
	return p.Phone != ""
}

// Matches reports whether the person passes the phone filter.
func (f PhoneFilter) Matches(p *Person) bool {
	switch f {
	case PhoneYes:
		return p.HasPhone()
	case PhoneNo:
		return !p.HasPhone()
	default:
		return true
	}
}

func (f PhoneFilter) Valid() bool {
	return f == PhoneAny || f == PhoneYes || f == PhoneNo
}

// AddPersonRequest carries the addPerson arguments.
type AddPersonRequest struct {
	Name   string  `json:"name" validate:"required,min=5"`
	Phone  *string `json:"phone,omitempty" validate:"omitempty,min=5"`
	Street string  `json:"street" validate:"required,min=5"`
	City   string  `json:"city" validate:"required,min=5"`
}

type EditNumberRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required,min=5"`
}

// Seed is the sample address book the memory store starts with.
func Seed() []*Person {
	return []*Person{
		{
			Name:   "Midu",
			Phone:  "034-1234567",
			Street: "Calle Frontend",
			City:   "Barcelona",
			ID:     "3d594650-3436-11e9-bc57-8b80ba54c431",
		},
		{
			Name:   "Youseff",
			Phone:  "044-123456",
			Street: "Avenida Fullstack",
			City:   "Mataro",
			ID:     "3d599470-3436-11e9-bc57-8b80ba54c431",
		},
		{
			Name:   "Itzi",
			Street: "Pasaje Testing",
			City:   "Ibiza",
			ID:     "3d599471-3436-11e9-bc57-8b80ba54c431",
		},
	}
}
