package routepath

import "testing"

func TestTopLevelRouteConstants(t *testing.T) {
	t.Parallel()

	if Root != "/" {
		t.Fatalf("Root = %q", Root)
	}
	if Home != "/home" {
		t.Fatalf("Home = %q", Home)
	}
	if Health != "/up" {
		t.Fatalf("Health = %q", Health)
	}
	if AddPost != "/add-post" {
		t.Fatalf("AddPost = %q", AddPost)
	}
	if UpdatePost != "/update-post" {
		t.Fatalf("UpdatePost = %q", UpdatePost)
	}
	if DeletePost != "/delete-post" {
		t.Fatalf("DeletePost = %q", DeletePost)
	}
	if Comment != "/comment" {
		t.Fatalf("Comment = %q", Comment)
	}
	if RevalidateFocus != RevalidatePrefix+"focus" || RevalidateOnline != RevalidatePrefix+"online" {
		t.Fatalf("revalidate paths = %q %q", RevalidateFocus, RevalidateOnline)
	}
}

func TestHomeWithFilter(t *testing.T) {
	t.Parallel()

	if got := HomeWithFilter(""); got != "/home" {
		t.Fatalf("HomeWithFilter(\"\") = %q", got)
	}
	if got := HomeWithFilter(" 3 "); got != "/home?userId=3" {
		t.Fatalf("HomeWithFilter(3) = %q", got)
	}
	if got := HomeWithFilter("a b"); got != "/home?userId=a+b" {
		t.Fatalf("HomeWithFilter(a b) = %q", got)
	}
}
